package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/todo"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	category    string
	priority    string
	due         string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a todo" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--desc <text>] [--category <c>] [--priority <p>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsAPI() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if c.category != "" && !service.ValidCategory(service.Category(c.category)) {
		fmt.Fprintf(errOut, "error: invalid category: %s\n", c.category)
		return exitcode.UserError
	}
	if c.priority != "" && !service.ValidPriority(service.Priority(c.priority)) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}
	due, err := parseDue(c.due)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	mgr := todo.NewManager(svc)
	item, err := mgr.Create(ctx, service.TodoDraft{
		Title:       title,
		Description: c.description,
		Category:    service.Category(c.category),
		Priority:    service.Priority(c.priority),
		DueDate:     due,
	})
	if err != nil {
		return failure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %s\n", item.ID)
	}
	return exitcode.Success
}
