// Package service defines the backend-agnostic interface for todolist operations.
package service

import "context"

// Service defines the remote API consumed by the synchronization layer.
// All backend calls go through this interface; operations never import a
// backend package directly.
//
// A non-nil error is a transport failure (network, non-2xx, decoding).
// A nil error with a non-zero ResultCode is a failure declared by the API.
type Service interface {
	// GetTasks returns the tasks of a todolist in API order.
	GetTasks(ctx context.Context, listID string) (GetTasksResponse, error)

	// CreateTask creates a task and returns it.
	CreateTask(ctx context.Context, listID, title string) (Response[ItemData[Task]], error)

	// UpdateTask replaces all mutable fields of a task.
	UpdateTask(ctx context.Context, listID, taskID string, model UpdateTaskModel) (Response[ItemData[Task]], error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, listID, taskID string) (Response[Empty], error)

	// GetTodolists returns all todolists in API order.
	GetTodolists(ctx context.Context) ([]Todolist, error)

	// CreateTodolist creates a todolist and returns it.
	CreateTodolist(ctx context.Context, title string) (Response[ItemData[Todolist]], error)

	// UpdateTodolist changes the title of a todolist.
	UpdateTodolist(ctx context.Context, listID, title string) (Response[Empty], error)

	// DeleteTodolist deletes a todolist with all its tasks.
	DeleteTodolist(ctx context.Context, listID string) (Response[Empty], error)
}
