package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/auth"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

// otpMaxAttempts bounds interactive verification retries per login.
const otpMaxAttempts = 3

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: password mode by default, the
// two-phase OTP flow with --otp.
type LoginCmd struct {
	email    string
	password string
	otp      bool

	stdin io.Reader
}

// SetStdin overrides the interactive input (for testing).
func (c *LoginCmd) SetStdin(in io.Reader) { c.stdin = in }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string {
	return "taskdeck login [--otp] [--email <email>] [--password <password>]"
}
func (c *LoginCmd) NeedsAPI() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.otp, "otp", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr, err := newAuthManager(cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	p := newPrompter(c.stdin)

	email := c.email
	if email == "" {
		email, err = p.line(out, "Email: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if c.otp {
		return c.runOTP(ctx, cfg, mgr, p, email, out, errOut)
	}

	password := c.password
	if password == "" {
		password, err = p.password(out, "Password: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	sess, err := mgr.LoginWithPassword(ctx, email, password)
	if err != nil {
		return failure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", sess.Email)
	}
	return exitcode.Success
}

// runOTP drives request → verify, with blank input resending the code.
// A failed verify keeps the challenge alive so the user can retry without
// requesting a fresh code.
func (c *LoginCmd) runOTP(ctx context.Context, cfg *config.Config, mgr *auth.Manager, p *prompter, email string, out, errOut io.Writer) int {
	if err := mgr.RequestOTP(ctx, email); err != nil {
		return failure(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "code sent to %s\n", email)
	}

	for attempt := 0; attempt < otpMaxAttempts; attempt++ {
		code, err := p.line(out, "Enter 6-digit code (blank to resend): ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}

		if code == "" {
			if err := mgr.ResendOTP(ctx); err != nil {
				return failure(errOut, err)
			}
			if !cfg.Quiet {
				fmt.Fprintf(out, "code re-sent to %s\n", email)
			}
			attempt--
			continue
		}

		sess, err := mgr.VerifyOTP(ctx, email, auth.SplitOTP(code))
		if err != nil {
			var verrs auth.ValidationErrors
			if errors.As(err, &verrs) || isAPIError(err) {
				// Challenge survives a bad code; let the user retry.
				fmt.Fprintf(errOut, "error: %v\n", err)
				continue
			}
			return failure(errOut, err)
		}

		if !cfg.Quiet {
			fmt.Fprintf(out, "logged in as %s\n", sess.Email)
		}
		return exitcode.Success
	}

	fmt.Fprintln(errOut, "error: too many attempts")
	return exitcode.AuthError
}

func isAPIError(err error) bool {
	var apiErr *service.APIError
	return errors.As(err, &apiErr)
}
