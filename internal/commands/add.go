package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *AddCmd) SetListName(name string) {
	c.listName = name
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todosync add [--list <list-name>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return reportError(errOut, err)
	}
	list, err := resolveList(lists, c.listName, TaskRef{})
	if err != nil {
		return reportError(errOut, err)
	}

	if _, err := ops.AddTask(ctx, list.ID, title); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
