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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAPI() bool    { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List your todos
  taskdeck list [common flags] [listing flags]       List todos with filters
  taskdeck add [common flags] [--desc <d>] [--category <c>] [--priority <p>] [--due <date>] <title...>
  taskdeck show [common flags] [listing flags] <ref>
  taskdeck edit [common flags] [listing flags] [field flags] <ref>
  taskdeck done [common flags] [listing flags] <ref>
  taskdeck rm [common flags] [listing flags] <ref>
  taskdeck stats [common flags] [listing flags]
  taskdeck register [common flags] --name <n> --email <e> --city <c> --mobile <m>
  taskdeck login [common flags] [--email <e>] [--password <p>] [--otp]
  taskdeck logout [common flags]
  taskdeck whoami [common flags]
  taskdeck expense [common flags] add|list|rm|summary ...
  taskdeck help
  taskdeck version

Listing flags:
  --page <n>       Page number (default 1)
  --limit <n>      Items per page (default 10)
  --status <s>     Filter by status: completed, pending
  --category <c>   Filter by category: work, personal, shopping, health, other
  --priority <p>   Filter by priority: high, medium, low
  --search <text>  Search in title and description
  --sort <field>   Sort field (default createdAt)
  --order <dir>    Sort direction: asc, desc (default desc)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
