// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"todosync/internal/service"
	"todosync/internal/store"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// DateLayout is used for start dates and deadlines.
	DateLayout = "2006-01-02"
)

var (
	doneColor   = color.New(color.FgGreen)
	busyColor   = color.New(color.FgYellow)
	failedColor = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)

	priorityColors = map[service.TaskPriority]*color.Color{
		service.PriorityHigh:   color.New(color.FgYellow),
		service.PriorityUrgent: color.New(color.FgRed, color.Bold),
		service.PriorityLater:  color.New(color.FgCyan),
	}
)

// FormatTaskWithLetter formats a task line prefixed by its list letter.
// Format: "{REF:>5}  {MARK} {TITLE}{DETAILS}\n", e.g. "   a3  [ ] Buy milk"
func FormatTaskWithLetter(w io.Writer, letter rune, num int, task service.Task) {
	ref := fmt.Sprintf("%c%d", letter, num)
	fmt.Fprintf(w, "%5s  %s %s%s\n", ref, statusMark(task.Status), normalizeTitle(task.Title), details(task))
}

// FormatListHeader formats a list section header.
// The filter is shown unless it is "all"; a list being deleted is marked.
func FormatListHeader(w io.Writer, letter rune, list store.TodolistDomain) {
	title := fmt.Sprintf("%c  %s", letter, normalizeListTitle(list.Title))
	if list.Filter != "" && list.Filter != store.FilterAll {
		title += dimColor.Sprintf(" [%s]", list.Filter)
	}
	title += entityStatus(list.EntityStatus)
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list name for the lists command.
func FormatListName(w io.Writer, letter rune, list store.TodolistDomain) {
	fmt.Fprintf(w, "%c  %s%s\n", letter, normalizeListTitle(list.Title), entityStatus(list.EntityStatus))
}

// FormatAppError formats the last synchronization error, if any. The
// message outlives the Failed status when a later operation succeeds.
func FormatAppError(w io.Writer, state store.RootState) {
	if store.SelectAppError(state) == "" {
		return
	}
	fmt.Fprintln(w, failedColor.Sprintf("last sync failed: %s", store.SelectAppError(state)))
}

func statusMark(s service.TaskStatus) string {
	switch s {
	case service.StatusCompleted:
		return doneColor.Sprint("[x]")
	case service.StatusInProgress:
		return busyColor.Sprint("[~]")
	case service.StatusDraft:
		return dimColor.Sprint("[-]")
	default:
		return "[ ]"
	}
}

func entityStatus(s store.RequestStatus) string {
	switch s {
	case store.StatusLoading:
		return busyColor.Sprint(" (busy)")
	case store.StatusFailed:
		return failedColor.Sprint(" (failed)")
	default:
		return ""
	}
}

// details renders the priority and dates that differ from the defaults.
func details(task service.Task) string {
	var parts []string
	if c, ok := priorityColors[task.Priority]; ok {
		parts = append(parts, c.Sprintf("!%s", task.Priority))
	}
	if task.StartDate != nil && !task.StartDate.IsZero() {
		parts = append(parts, "from "+task.StartDate.UTC().Format(DateLayout))
	}
	if task.Deadline != nil && !task.Deadline.IsZero() {
		parts = append(parts, "due "+task.Deadline.UTC().Format(DateLayout))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
