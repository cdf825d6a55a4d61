package commands

import (
	"context"
	"flag"
	"io"

	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
	"todosync/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	listName string
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "todosync rm [--list <list-name>] <ref>..." }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

// Run resolves every reference before deleting anything, so numbers keep
// pointing at the tasks the user saw. Deletes then run concurrently.
func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return reportError(errOut, err)
	}

	type target struct{ listID, taskID string }
	var targets []target
	seen := make(map[target]bool)
	for _, ref := range refs {
		list, task, err := findTask(ctx, ops, c.listName, ref)
		if err != nil {
			return reportError(errOut, err)
		}
		t := target{list.ID, task.ID}
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}

	pending := make([]*operations.Pending[service.Task], 0, len(targets))
	for _, t := range targets {
		pending = append(pending, operations.Go(ctx, func(ctx context.Context) (service.Task, error) {
			return service.Task{}, ops.RemoveTask(ctx, t.listID, t.taskID)
		}))
	}
	if _, err := operations.WaitAll(ctx, pending...); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
