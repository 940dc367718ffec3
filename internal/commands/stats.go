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
	"taskdeck/internal/todo"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd prints the aggregate counts and completion bar, under the same
// filters as list.
type StatsCmd struct {
	flags queryFlags
}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return []string{"progress"} }
func (c *StatsCmd) Synopsis() string  { return "Show completion stats" }
func (c *StatsCmd) Usage() string {
	return "taskdeck stats [--status <s>] [--category <c>] [--priority <p>] [--search <text>]"
}
func (c *StatsCmd) NeedsAPI() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr := todo.NewManager(svc)
	if err := c.flags.apply(mgr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := mgr.Refresh(ctx); err != nil {
		return failure(errOut, err)
	}

	output.FormatStats(out, mgr.Stats())
	return exitcode.Success
}
