// Package service defines the backend-agnostic interface for todolist operations.
package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus int

const (
	StatusNew TaskStatus = iota
	StatusInProgress
	StatusCompleted
	StatusDraft
)

var taskStatusNames = map[TaskStatus]string{
	StatusNew:        "new",
	StatusInProgress: "inprogress",
	StatusCompleted:  "completed",
	StatusDraft:      "draft",
}

func (s TaskStatus) String() string {
	if name, ok := taskStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseTaskStatus parses a status name (case-insensitive).
func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, name := range taskStatusNames {
		if name == s {
			return status, nil
		}
	}
	if s == "in-progress" || s == "in_progress" {
		return StatusInProgress, nil
	}
	return 0, fmt.Errorf("invalid task status: %s", s)
}

// TaskPriority is the importance of a task.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityMiddle
	PriorityHigh
	PriorityUrgent
	PriorityLater
)

var taskPriorityNames = map[TaskPriority]string{
	PriorityLow:    "low",
	PriorityMiddle: "middle",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
	PriorityLater:  "later",
}

func (p TaskPriority) String() string {
	if name, ok := taskPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParseTaskPriority parses a priority name (case-insensitive).
func ParseTaskPriority(s string) (TaskPriority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range taskPriorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid task priority: %s", s)
}

// ResultCode is the application-level outcome of an API call.
// It is independent of the HTTP status.
type ResultCode int

const (
	ResultSucceeded ResultCode = 0
	ResultReject    ResultCode = 1
	ResultCaptcha   ResultCode = 10
)

// Timestamp is a point in time as exchanged with the API.
// The API omits the zone offset, so both RFC 3339 and the bare
// "2006-01-02T15:04:05" layout are accepted.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s using the layouts the API is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp: %s", s)
}

// NewTimestamp returns a pointer to a Timestamp for t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// MarshalJSON encodes the zero value as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts null, an empty string or any supported layout.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Task represents a single task item.
type Task struct {
	ID          string       `json:"id"`
	TodoListID  string       `json:"todoListId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   *Timestamp   `json:"startDate"`
	Deadline    *Timestamp   `json:"deadline"`
	Order       int          `json:"order"`
	AddedDate   Timestamp    `json:"addedDate"`
}

// Todolist represents a todolist as the API returns it.
type Todolist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AddedDate Timestamp `json:"addedDate"`
	Order     int       `json:"order"`
}

// UpdateTaskModel is the full set of mutable task fields sent on update.
// The API replaces every field, so callers must fill all of them.
type UpdateTaskModel struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   *Timestamp   `json:"startDate"`
	Deadline    *Timestamp   `json:"deadline"`
}

// FieldError is a validation message bound to a request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Response is the envelope of every mutating API call.
type Response[T any] struct {
	ResultCode   ResultCode   `json:"resultCode"`
	Messages     []string     `json:"messages"`
	FieldsErrors []FieldError `json:"fieldsErrors"`
	Data         T            `json:"data"`
}

// Succeeded reports whether the API accepted the call.
func (r Response[T]) Succeeded() bool {
	return r.ResultCode == ResultSucceeded
}

// ItemData wraps a single created or updated entity.
type ItemData[T any] struct {
	Item T `json:"item"`
}

// Empty is the payload of calls that return no data.
type Empty struct{}

// GetTasksResponse is the payload of the task listing call.
type GetTasksResponse struct {
	Error      *string `json:"error"`
	TotalCount int     `json:"totalCount"`
	Items      []Task  `json:"items"`
}
