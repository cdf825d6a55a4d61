package commands

import (
	"context"
	"flag"
	"io"

	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
	"todosync/internal/service"
	"todosync/internal/store"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	listName string
	undo     bool
}

// SetListName sets the list name (for testing).
func (c *DoneCmd) SetListName(name string) {
	c.listName = name
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todosync done [--list <list-name>] [--undo] <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.BoolVar(&c.undo, "undo", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportError(errOut, err)
	}

	list, task, err := findTask(ctx, ops, c.listName, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	status := service.StatusCompleted
	if c.undo {
		status = service.StatusNew
	}
	if err := ops.UpdateTask(ctx, list.ID, task.ID, store.UpdateDomainTaskModel{Status: &status}); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
