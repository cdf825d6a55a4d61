package store

import (
	"fmt"
	"strings"
)

// RequestStatus tracks the progress of a synchronization.
type RequestStatus string

const (
	StatusIdle      RequestStatus = "idle"
	StatusLoading   RequestStatus = "loading"
	StatusSucceeded RequestStatus = "succeeded"
	StatusFailed    RequestStatus = "failed"
)

// FilterValue selects which tasks of a todolist are shown.
type FilterValue string

const (
	FilterAll       FilterValue = "all"
	FilterActive    FilterValue = "active"
	FilterCompleted FilterValue = "completed"
)

// ParseFilter parses a filter name (case-insensitive).
func ParseFilter(s string) (FilterValue, error) {
	switch f := FilterValue(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}
