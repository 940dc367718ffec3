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
	Register(&ListCmd{})
}

// ListCmd implements the list command. Also what `taskdeck` with no args
// dispatches to.
type ListCmd struct {
	flags queryFlags
	ids   bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List todos" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--page <n>] [--limit <n>] [--status <s>] [--category <c>] [--priority <p>] [--search <text>] [--sort <field>] [--order asc|desc] [--ids]"
}
func (c *ListCmd) NeedsAPI() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
	fs.BoolVar(&c.ids, "ids", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr := todo.NewManager(svc)
	if err := c.flags.apply(mgr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := mgr.Refresh(ctx); err != nil {
		return failure(errOut, err)
	}

	items := mgr.Items()
	if len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no todos found")
		}
		return exitcode.Success
	}

	q := mgr.Query()
	startNum := (q.Page-1)*q.Limit + 1
	for i, item := range items {
		if c.ids {
			output.FormatTodoID(out, startNum+i, item)
		} else {
			output.FormatTodoLine(out, startNum+i, item)
		}
	}

	stats := mgr.Stats()
	if tp := stats.TotalPages(q.Limit); tp > 1 {
		output.FormatPageFooter(out, q.Page, tp, stats.Total)
	}
	return exitcode.Success
}
