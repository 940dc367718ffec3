package commands

import (
	"context"
	"errors"
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
	Register(&ShowCmd{})
}

// ShowCmd prints one todo in full. The ref is a row number from the last
// listing or a server ID.
type ShowCmd struct {
	flags queryFlags
}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"view"} }
func (c *ShowCmd) Synopsis() string  { return "Show one todo" }
func (c *ShowCmd) Usage() string     { return "taskdeck show [listing flags] <ref>" }
func (c *ShowCmd) NeedsAPI() bool    { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	output.FormatTodoDetail(out, item)
	return exitcode.Success
}
