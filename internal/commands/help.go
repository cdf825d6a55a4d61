package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todosync help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todosync                                             List all lists and their tasks
  todosync list [--filter all|active|completed] [<list-name>]
  todosync lists
  todosync add [--list <list-name>] <title...>
  todosync update [--list <list-name>] [--title <t>] [--description <d>]
                  [--status <s>] [--priority <p>] [--start <date>] [--deadline <date>] <ref>
  todosync done [--list <list-name>] [--undo] <ref>
  todosync rm [--list <list-name>] <ref>...
  todosync createlist <list-name>
  todosync renamelist --title <new-title> <list-name>
  todosync rmlist [--force] <list-name>
  todosync login [--api-key <key>] [--token <token>]
  todosync logout
  todosync help
  todosync version

References:
  3        third task of the first list
  b3, b 3  third task of list b (letters as printed by 'todosync lists')

Values:
  status    new, inprogress, completed, draft
  priority  low, middle, high, urgent, later
  date      2006-01-02 or RFC 3339; "none" clears it

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
