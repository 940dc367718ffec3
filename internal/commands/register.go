package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name   string
	email  string
	city   string
	mobile string

	stdin io.Reader
}

// SetStdin overrides the interactive input (for testing).
func (c *RegisterCmd) SetStdin(in io.Reader) { c.stdin = in }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskdeck register --name <name> --email <email> --city <city> [--mobile <number>]"
}
func (c *RegisterCmd) NeedsAPI() bool { return true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.city, "city", "", "")
	fs.StringVar(&c.mobile, "mobile", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr, err := newAuthManager(cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	p := newPrompter(c.stdin)
	password, err := p.password(out, "Password: ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	confirm, err := p.password(out, "Confirm password: ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess, err := mgr.Register(ctx, service.Registration{
		Name:            c.name,
		Email:           c.email,
		City:            c.city,
		Mobile:          c.mobile,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return failure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", sess.Email)
	}
	return exitcode.Success
}
