package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/todo"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd toggles a todo's completed flag. The list and stats are
// re-fetched afterwards so the counts always match what the server holds.
type DoneCmd struct {
	flags queryFlags
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a todo's completion" }
func (c *DoneCmd) Usage() string     { return "taskdeck done [listing flags] <ref>" }
func (c *DoneCmd) NeedsAPI() bool    { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: todo reference required")
		return exitcode.UserError
	}

	mgr := todo.NewManager(svc)
	if err := c.flags.apply(mgr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	item, err := resolveTodoRef(ctx, mgr, args[0])
	if err != nil {
		if errors.Is(err, errRefOutOfRange) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return failure(errOut, err)
	}

	toggled, err := mgr.Toggle(ctx, item.ID)
	if err != nil {
		return failure(errOut, err)
	}

	if !cfg.Quiet {
		if toggled.Completed {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
