package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the current identity after revalidating the session
// according to the configured bootstrap strategy.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return []string{"me"} }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskdeck whoami [common flags]" }
func (c *WhoamiCmd) NeedsAPI() bool    { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr, err := newAuthManager(cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	printedCached := false
	onCached := func(cached service.UserSession) {
		output.FormatSession(out, cached)
		if !cfg.Quiet {
			fmt.Fprintln(out, "(cached, revalidating)")
		}
		printedCached = true
	}

	sess, err := mgr.Bootstrap(ctx, bootstrapMode(cfg), onCached)
	if err != nil {
		return failure(errOut, err)
	}

	if !printedCached {
		output.FormatSession(out, sess)
	}
	return exitcode.Success
}
