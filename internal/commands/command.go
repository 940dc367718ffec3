// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskdeck/internal/auth"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
	"taskdeck/internal/todo"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAPI returns true if the command talks to the remote API and
	// needs a constructed backend. Commands like help, version and expense
	// (local-only) return false.
	NeedsAPI() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings).
	// svc is nil if no service factory was configured.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// newStore builds the local store the config asks for: sealed when
// seal_session is set, plain files otherwise.
func newStore(cfg *config.Config) (session.Store, error) {
	if cfg.Settings.SealSession {
		return session.NewSealedStore(cfg.Dir, cfg.KeyPath())
	}
	return session.NewFileStore(cfg.Dir), nil
}

func sessionTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Settings.SessionTTLDays) * 24 * time.Hour
}

// newAuthManager wires an auth manager for svc using the configured store.
func newAuthManager(cfg *config.Config, svc service.Service) (*auth.Manager, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return auth.NewManager(svc, store, sessionTTL(cfg)), nil
}

func bootstrapMode(cfg *config.Config) auth.BootstrapMode {
	if cfg.Settings.Bootstrap == config.BootstrapCachedFirst {
		return auth.CachedFirst
	}
	return auth.ValidateFirst
}

// failure reports err on errOut and maps it to an exit code. Validation
// errors are printed per field; API errors surface the server message
// verbatim; everything transport-shaped is a backend error.
func failure(errOut io.Writer, err error) int {
	var verrs auth.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fmt.Fprintf(errOut, "error: %s\n", fe.Message)
		}
		return exitcode.UserError
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(errOut, "error: %s\n", apiErr.Message)
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
			return exitcode.AuthError
		}
		return exitcode.BackendError
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, todo.ErrTitleRequired),
		errors.Is(err, todo.ErrPageOutOfRange),
		errors.Is(err, auth.ErrBusy),
		errors.Is(err, auth.ErrNoOtpRequested),
		errors.Is(err, auth.ErrOtpEmailChanged):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
