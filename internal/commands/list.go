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
	"todosync/internal/output"
	"todosync/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todosync` (no args) and `todosync list <list-name>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todosync list [--filter all|active|completed] [<list-name>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(store.FilterAll), "")
	fs.StringVar(&c.filter, "f", string(store.FilterAll), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int {
	filter := store.FilterAll
	if c.filter != "" {
		var err error
		if filter, err = store.ParseFilter(c.filter); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if len(args) == 0 {
		return c.listAll(ctx, cfg, ops, filter, out, errOut)
	}
	return c.listOne(ctx, ops, strings.Join(args, " "), filter, out, errOut)
}

// listAll prints every todolist with its tasks (todosync with no args).
// When only some task fetches fail, the lists that loaded are still
// printed and the sync failure is reported after them.
func (c *ListCmd) listAll(ctx context.Context, cfg *config.Config, ops *operations.Runner, filter store.FilterValue, out, errOut io.Writer) int {
	loadErr := ops.LoadAll(ctx)
	lists := store.SelectTodolists(ops.State())
	if loadErr != nil && len(lists) == 0 {
		return reportError(errOut, loadErr)
	}

	if len(lists) > MaxLetteredLists {
		fmt.Fprintf(errOut, "error: too many lists (max %d)\n", MaxLetteredLists)
		return exitcode.UserError
	}
	for _, tl := range lists {
		ops.ChangeFilter(tl.ID, filter)
	}

	state := ops.State()
	hasAnyTasks := false
	for i, tl := range store.SelectTodolists(state) {
		if printSection(out, ListLetter(i), tl, state) > 0 {
			hasAnyTasks = true
		}
	}

	if loadErr != nil {
		output.FormatAppError(errOut, state)
		return exitcode.BackendError
	}
	if !hasAnyTasks && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// listOne prints a single todolist (todosync list <name>).
func (c *ListCmd) listOne(ctx context.Context, ops *operations.Runner, listName string, filter store.FilterValue, out, errOut io.Writer) int {
	listName = strings.TrimSpace(listName)
	if listName == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return reportError(errOut, err)
	}
	list, err := resolveListByName(lists, listName)
	if err != nil {
		return reportError(errOut, err)
	}
	if _, err := ops.FetchTasks(ctx, list.ID); err != nil {
		return reportError(errOut, err)
	}
	ops.ChangeFilter(list.ID, filter)

	state := ops.State()
	for i, tl := range store.SelectTodolists(state) {
		if tl.ID == list.ID {
			printSection(out, ListLetter(i), tl, state)
			break
		}
	}
	return exitcode.Success
}

// printSection prints the header and the filtered tasks of one todolist
// and returns how many tasks it printed. Task numbers are positions in
// the unfiltered list.
func printSection(out io.Writer, letter rune, tl store.TodolistDomain, state store.RootState) int {
	output.FormatListHeader(out, letter, tl)
	position := make(map[string]int)
	for i, task := range store.SelectTasksForList(state, tl.ID) {
		position[task.ID] = i + 1
	}
	filtered := store.SelectFilteredTasks(state, tl.ID)
	for _, task := range filtered {
		output.FormatTaskWithLetter(out, letter, position[task.ID], task)
	}
	return len(filtered)
}
