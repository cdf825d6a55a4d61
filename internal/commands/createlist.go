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
	Register(&CreateListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct{}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a new list" }
func (c *CreateListCmd) Usage() string     { return "todosync createlist [common flags] <list-name>" }
func (c *CreateListCmd) NeedsAuth() bool   { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateListCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return reportError(errOut, err)
	}
	for _, tl := range lists {
		if strings.EqualFold(strings.TrimSpace(tl.Title), name) {
			fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
			return exitcode.UserError
		}
	}

	if _, err := ops.AddTodolist(ctx, name); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
