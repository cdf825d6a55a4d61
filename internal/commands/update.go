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
	"todosync/internal/service"
	"todosync/internal/store"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command. Only the flags given are
// changed; the other fields keep their stored values.
type UpdateCmd struct {
	listName string
	model    store.UpdateDomainTaskModel
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string  { return "Change fields of a task" }
func (c *UpdateCmd) Usage() string {
	return "todosync update [--list <list-name>] [--title <t>] [--description <d>] [--status <s>] [--priority <p>] [--start <date>] [--deadline <date>] <ref>"
}
func (c *UpdateCmd) NeedsAuth() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.model = store.UpdateDomainTaskModel{}

	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.Func("title", "", func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("title must not be empty")
		}
		c.model.Title = &s
		return nil
	})
	fs.Func("description", "", func(s string) error {
		c.model.Description = &s
		return nil
	})
	fs.Func("status", "", func(s string) error {
		status, err := service.ParseTaskStatus(s)
		if err != nil {
			return err
		}
		c.model.Status = &status
		return nil
	})
	fs.Func("priority", "", func(s string) error {
		p, err := service.ParseTaskPriority(s)
		if err != nil {
			return err
		}
		c.model.Priority = &p
		return nil
	})
	fs.Func("start", "", func(s string) error {
		ts, err := parseDateFlag(s)
		c.model.StartDate = ts
		return err
	})
	fs.Func("deadline", "", func(s string) error {
		ts, err := parseDateFlag(s)
		c.model.Deadline = ts
		return err
	})
}

// parseDateFlag parses a date flag; "none" clears the date.
func parseDateFlag(s string) (*service.Timestamp, error) {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return &service.Timestamp{}, nil
	}
	ts, err := service.ParseTimestamp(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &ts, nil
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportError(errOut, err)
	}
	if c.model.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	list, task, err := findTask(ctx, ops, c.listName, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	if err := ops.UpdateTask(ctx, list.ID, task.ID, c.model); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
