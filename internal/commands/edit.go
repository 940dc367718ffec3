package commands

import (
	"context"
	"errors"
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
	Register(&EditCmd{})
}

// EditCmd patches an existing todo. Only flags the user actually passed
// make it into the patch; everything else stays as the server has it.
type EditCmd struct {
	flags       queryFlags
	title       string
	description string
	category    string
	priority    string
	due         string
	done        bool
	pending     bool

	fs *flag.FlagSet
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Update a todo" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [listing flags] [--title <t>] [--desc <d>] [--set-category <c>] [--set-priority <p>] [--due <YYYY-MM-DD>] [--done|--pending] <ref>"
}
func (c *EditCmd) NeedsAPI() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.category, "set-category", "", "")
	fs.StringVar(&c.priority, "set-priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.pending, "pending", false, "")
	c.fs = fs
}

// patch builds a TodoPatch from the flags the user actually set.
func (c *EditCmd) patch() (service.TodoPatch, error) {
	var p service.TodoPatch
	var err error

	set := map[string]bool{}
	c.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["title"] {
		if strings.TrimSpace(c.title) == "" {
			return p, todo.ErrTitleRequired
		}
		p.Title = &c.title
	}
	if set["desc"] {
		p.Description = &c.description
	}
	if set["set-category"] {
		cat := service.Category(c.category)
		if !service.ValidCategory(cat) {
			return p, fmt.Errorf("invalid category: %s", c.category)
		}
		p.Category = &cat
	}
	if set["set-priority"] {
		pr := service.Priority(c.priority)
		if !service.ValidPriority(pr) {
			return p, fmt.Errorf("invalid priority: %s", c.priority)
		}
		p.Priority = &pr
	}
	if set["due"] {
		p.DueDate, err = parseDue(c.due)
		if err != nil {
			return p, err
		}
	}
	if c.done && c.pending {
		return p, errors.New("cannot use both --done and --pending")
	}
	if c.done {
		v := true
		p.Completed = &v
	}
	if c.pending {
		v := false
		p.Completed = &v
	}

	if p == (service.TodoPatch{}) {
		return p, errors.New("nothing to change")
	}
	return p, nil
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: todo reference required")
		return exitcode.UserError
	}

	patch, err := c.patch()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
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

	if _, err := mgr.Update(ctx, item.ID, patch); err != nil {
		return failure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
