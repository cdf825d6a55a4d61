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
	Register(&RenameListCmd{})
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct {
	title string
}

// SetTitle sets the new title (for testing).
func (c *RenameListCmd) SetTitle(title string) {
	c.title = title
}

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return nil }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string     { return "todosync renamelist --title <new-title> <list-name>" }
func (c *RenameListCmd) NeedsAuth() bool   { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}
	title := strings.TrimSpace(c.title)
	if title == "" {
		fmt.Fprintln(errOut, "error: new title required (use --title)")
		return exitcode.UserError
	}

	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return reportError(errOut, err)
	}
	list, err := resolveListByName(lists, name)
	if err != nil {
		return reportError(errOut, err)
	}

	if err := ops.RenameTodolist(ctx, list.ID, title); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
