package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"todosync/internal/exitcode"
	"todosync/internal/operations"
	"todosync/internal/service"
	"todosync/internal/store"
)

var (
	// ErrListNotFound indicates no todolist matches a name.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList indicates several todolists share a name.
	ErrAmbiguousList = errors.New("ambiguous list name")

	// ErrNoLists indicates an empty account.
	ErrNoLists = errors.New("no lists (run: todosync createlist <title>)")

	// ErrTaskOutOfRange indicates a task number past the end of a list.
	ErrTaskOutOfRange = errors.New("task number out of range")

	// ErrListAndLetter indicates --list was combined with a lettered reference.
	ErrListAndLetter = errors.New("cannot use both --list and list letter")
)

// loadTodolists fetches the todolists into the store and returns them in
// store order.
func loadTodolists(ctx context.Context, ops *operations.Runner) ([]store.TodolistDomain, error) {
	if _, err := ops.FetchTodolists(ctx); err != nil {
		return nil, err
	}
	return store.SelectTodolists(ops.State()), nil
}

// resolveListByName finds a todolist by title (case-insensitive) or, for a
// single letter that matches no title, by letter.
func resolveListByName(lists []store.TodolistDomain, name string) (store.TodolistDomain, error) {
	name = strings.TrimSpace(name)

	var matches []store.TodolistDomain
	for _, tl := range lists {
		if strings.EqualFold(strings.TrimSpace(tl.Title), name) {
			matches = append(matches, tl)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		if len(name) == 1 && isLetter(rune(name[0])) {
			if tl, err := ResolveListByLetter(lists, rune(name[0])); err == nil {
				return tl, nil
			}
		}
		return store.TodolistDomain{}, fmt.Errorf("%w: %s", ErrListNotFound, name)
	default:
		return store.TodolistDomain{}, fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

// resolveList picks the todolist for a command: --list wins, then the
// reference letter, then the first list.
func resolveList(lists []store.TodolistDomain, listName string, ref TaskRef) (store.TodolistDomain, error) {
	switch {
	case listName != "" && ref.HasLetter:
		return store.TodolistDomain{}, ErrListAndLetter
	case listName != "":
		return resolveListByName(lists, listName)
	case ref.HasLetter:
		return ResolveListByLetter(lists, ref.Letter)
	case len(lists) == 0:
		return store.TodolistDomain{}, ErrNoLists
	default:
		return lists[0], nil
	}
}

// findTask loads the tasks of the addressed list and returns the task
// numbered by ref. Numbers count every task of the list, whatever its
// filter, so they match the list command's output.
func findTask(ctx context.Context, ops *operations.Runner, listName string, ref TaskRef) (store.TodolistDomain, service.Task, error) {
	if listName != "" && ref.HasLetter {
		return store.TodolistDomain{}, service.Task{}, ErrListAndLetter
	}
	if ref.TaskNum < 1 {
		return store.TodolistDomain{}, service.Task{}, fmt.Errorf("%w: %s", ErrTaskOutOfRange, ref)
	}

	lists, err := loadTodolists(ctx, ops)
	if err != nil {
		return store.TodolistDomain{}, service.Task{}, err
	}
	list, err := resolveList(lists, listName, ref)
	if err != nil {
		return store.TodolistDomain{}, service.Task{}, err
	}

	tasks, err := ops.FetchTasks(ctx, list.ID)
	if err != nil {
		return store.TodolistDomain{}, service.Task{}, err
	}
	if ref.TaskNum > len(tasks) {
		return store.TodolistDomain{}, service.Task{}, fmt.Errorf("%w: %s", ErrTaskOutOfRange, ref)
	}
	return list, tasks[ref.TaskNum-1], nil
}

// isUserError reports whether err was caused by the arguments.
func isUserError(err error) bool {
	for _, target := range []error{
		ErrTaskRefRequired,
		ErrInvalidTaskRef,
		ErrListLetterNotFound,
		ErrListNotFound,
		ErrAmbiguousList,
		ErrNoLists,
		ErrTaskOutOfRange,
		ErrListAndLetter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// reportError prints err to errOut and returns its exit code.
// Rejections the store raised locally count as user errors; everything the
// backend refused is a backend error.
func reportError(errOut io.Writer, err error) int {
	var rejected *operations.RejectedError
	switch {
	case isUserError(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &rejected) && rejected.Kind == operations.KindLocal:
		fmt.Fprintf(errOut, "error: %s\n", rejected.Message)
		return exitcode.UserError
	case errors.As(err, &rejected):
		fmt.Fprintf(errOut, "error: backend error: %s\n", rejected.Message)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// printOK prints the success marker unless quiet.
func printOK(out io.Writer, quiet bool) {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
}
