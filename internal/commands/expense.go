package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/expense"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&ExpenseCmd{})
}

// ExpenseCmd manages the local expense ledger. Nothing here touches the
// remote API; the ledger lives in the local store only.
//
// Subcommand flags are parsed here rather than in RegisterFlags because
// they come after the subcommand word.
type ExpenseCmd struct{}

func (c *ExpenseCmd) Name() string      { return "expense" }
func (c *ExpenseCmd) Aliases() []string { return []string{"exp"} }
func (c *ExpenseCmd) Synopsis() string  { return "Track expenses locally" }
func (c *ExpenseCmd) Usage() string {
	return "taskdeck expense add --amount <n> [--category <c>] [--date <YYYY-MM-DD>] <description...> | list [--category <c>] | rm <ref> | summary"
}
func (c *ExpenseCmd) NeedsAPI() bool { return false }

func (c *ExpenseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ExpenseCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: expense subcommand required (add, list, rm, summary)")
		return exitcode.UserError
	}

	store, err := newStore(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	ledger := expense.NewLedger(store)

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return c.runAdd(ledger, rest, cfg, out, errOut)
	case "list", "ls":
		return c.runList(ledger, rest, cfg, out, errOut)
	case "rm", "delete":
		return c.runRm(ledger, rest, cfg, out, errOut)
	case "summary":
		output.FormatExpenseSummary(out, ledger.Summarize())
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unknown expense subcommand: %s\n", sub)
		return exitcode.UserError
	}
}

func subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *ExpenseCmd) runAdd(ledger *expense.Ledger, args []string, cfg *config.Config, out, errOut io.Writer) int {
	fs := subFlags("expense add")
	var amount float64
	var category, date string
	fs.Float64Var(&amount, "amount", 0, "")
	fs.Float64Var(&amount, "a", 0, "")
	fs.StringVar(&category, "category", "", "")
	fs.StringVar(&category, "c", "", "")
	fs.StringVar(&date, "date", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	exp, err := ledger.Add(strings.Join(fs.Args(), " "), amount, expense.Category(category), date)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "recorded %.2f (%s)\n", exp.Amount, exp.Category)
	}
	return exitcode.Success
}

func (c *ExpenseCmd) runList(ledger *expense.Ledger, args []string, cfg *config.Config, out, errOut io.Writer) int {
	fs := subFlags("expense list")
	var category string
	fs.StringVar(&category, "category", "", "")
	fs.StringVar(&category, "c", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	cat := expense.Category(category)
	if category != "" && !cat.Valid() {
		fmt.Fprintf(errOut, "error: unknown category: %s\n", category)
		return exitcode.UserError
	}

	expenses := ledger.List(cat)
	if len(expenses) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no expenses recorded")
		}
		return exitcode.Success
	}
	for i, e := range expenses {
		output.FormatExpenseLine(out, i+1, e)
	}
	return exitcode.Success
}

func (c *ExpenseCmd) runRm(ledger *expense.Ledger, args []string, cfg *config.Config, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: expense reference required")
		return exitcode.UserError
	}

	id := args[0]
	if isAllDigits(id) {
		// Row number from the last listing, newest first.
		num, err := strconv.Atoi(id)
		expenses := ledger.List("")
		if err != nil || num < 1 || num > len(expenses) {
			fmt.Fprintf(errOut, "error: expense number out of range: %s\n", id)
			return exitcode.UserError
		}
		id = expenses[num-1].ID
	}

	if err := ledger.Delete(id); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
