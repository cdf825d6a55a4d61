package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
	"todosync/internal/output"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists with their letters" }
func (c *ListsCmd) Usage() string     { return "todosync lists [common flags]" }
func (c *ListsCmd) NeedsAuth() bool   { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return reportError(errOut, err)
	}

	for i, tl := range lists {
		letter := ListLetter(i)
		if letter == 0 {
			letter = ' '
		}
		output.FormatListName(out, letter, tl)
	}

	if len(lists) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no lists found")
	}
	return exitcode.Success
}
