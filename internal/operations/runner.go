// Package operations synchronizes the store with the remote API.
//
// Every operation marks the global status Loading, calls the service and
// then either marks it Succeeded and dispatches the matching store
// mutation, or marks it Failed with a message and returns a
// *RejectedError. Failures never panic and never reach the caller in any
// other form.
package operations

import (
	"context"

	"todosync/internal/log"
	"todosync/internal/service"
	"todosync/internal/store"
)

// Runner executes synchronization operations against one store.
// Operations may run concurrently; the store serializes their mutations.
type Runner struct {
	store *store.Store
	svc   service.Service
	log   log.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(st *store.Store, svc service.Service, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &Runner{store: st, svc: svc, log: logger}
}

// State returns a snapshot of the current state.
func (r *Runner) State() store.RootState { return r.store.GetState() }

func (r *Runner) begin(op string) {
	r.log.Debug("operation started", "op", op)
	r.store.Dispatch(store.AppStatusChanged{Status: store.StatusLoading})
}

func (r *Runner) succeed(op string) {
	r.log.Debug("operation succeeded", "op", op)
	r.store.Dispatch(store.AppStatusChanged{Status: store.StatusSucceeded})
}

// FetchTasks replaces the tasks of listID with the server's.
func (r *Runner) FetchTasks(ctx context.Context, listID string) ([]service.Task, error) {
	const op = "fetchTasks"
	r.begin(op)
	res, err := r.svc.GetTasks(ctx, listID)
	if err != nil {
		return nil, r.handleServerNetworkError(op, err)
	}
	if res.Error != nil && *res.Error != "" {
		return nil, r.handleServerAppError(op, service.ResultReject, []string{*res.Error}, nil)
	}
	r.succeed(op)
	r.store.Dispatch(store.TasksFetched{ListID: listID, Tasks: res.Items})
	return res.Items, nil
}

// AddTask creates a task and puts it at the front of its list.
func (r *Runner) AddTask(ctx context.Context, listID, title string) (service.Task, error) {
	const op = "addTask"
	r.begin(op)
	res, err := r.svc.CreateTask(ctx, listID, title)
	if err != nil {
		return service.Task{}, r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		return service.Task{}, r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	task := res.Data.Item
	if task.TodoListID == "" {
		task.TodoListID = listID
	}
	r.succeed(op)
	r.store.Dispatch(store.TaskAdded{Task: task})
	return task, nil
}

// UpdateTask sends the stored task with partial merged on top and applies
// partial locally once the server accepts it. A task missing from the
// store fails without a network call.
func (r *Runner) UpdateTask(ctx context.Context, listID, taskID string, partial store.UpdateDomainTaskModel) error {
	const op = "updateTask"
	current, ok := r.store.GetState().Tasks.Find(listID, taskID)
	if !ok {
		r.log.Warn("task not found in the state", "op", op, "list_id", listID, "task_id", taskID)
		return &RejectedError{Op: op, Kind: KindLocal, Message: "task not found in the state"}
	}

	r.begin(op)
	res, err := r.svc.UpdateTask(ctx, listID, taskID, partial.FullUpdateModel(current))
	if err != nil {
		return r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		return r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	r.succeed(op)
	r.store.Dispatch(store.TaskUpdated{ListID: listID, TaskID: taskID, Model: partial})
	return nil
}

// RemoveTask deletes a task.
func (r *Runner) RemoveTask(ctx context.Context, listID, taskID string) error {
	const op = "removeTask"
	r.begin(op)
	res, err := r.svc.DeleteTask(ctx, listID, taskID)
	if err != nil {
		return r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		return r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	r.succeed(op)
	r.store.Dispatch(store.TaskRemoved{ListID: listID, TaskID: taskID})
	return nil
}

// FetchTodolists replaces all todolists and resets the task entries.
func (r *Runner) FetchTodolists(ctx context.Context) ([]service.Todolist, error) {
	const op = "fetchTodolists"
	r.begin(op)
	todolists, err := r.svc.GetTodolists(ctx)
	if err != nil {
		return nil, r.handleServerNetworkError(op, err)
	}
	r.succeed(op)
	r.store.Dispatch(store.TodolistsFetched{Todolists: todolists})
	return todolists, nil
}

// AddTodolist creates a todolist and puts it at the front.
func (r *Runner) AddTodolist(ctx context.Context, title string) (service.Todolist, error) {
	const op = "addTodolist"
	r.begin(op)
	res, err := r.svc.CreateTodolist(ctx, title)
	if err != nil {
		return service.Todolist{}, r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		return service.Todolist{}, r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	r.succeed(op)
	r.store.Dispatch(store.TodolistAdded{Todolist: res.Data.Item})
	return res.Data.Item, nil
}

// RemoveTodolist deletes a todolist. The list is marked Loading while the
// call is in flight and set back to Idle if it fails.
func (r *Runner) RemoveTodolist(ctx context.Context, id string) error {
	const op = "removeTodolist"
	r.begin(op)
	r.store.Dispatch(store.TodolistEntityStatusChanged{ID: id, Status: store.StatusLoading})

	res, err := r.svc.DeleteTodolist(ctx, id)
	if err != nil {
		r.resetEntityStatus(id)
		return r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		r.resetEntityStatus(id)
		return r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	r.succeed(op)
	r.store.Dispatch(store.TodolistRemoved{ID: id})
	return nil
}

func (r *Runner) resetEntityStatus(id string) {
	r.log.Debug("resetting entity status after failed delete", "list_id", id)
	r.store.Dispatch(store.TodolistEntityStatusChanged{ID: id, Status: store.StatusIdle})
}

// RenameTodolist changes the title of a todolist.
func (r *Runner) RenameTodolist(ctx context.Context, id, title string) error {
	const op = "renameTodolist"
	r.begin(op)
	res, err := r.svc.UpdateTodolist(ctx, id, title)
	if err != nil {
		return r.handleServerNetworkError(op, err)
	}
	if !res.Succeeded() {
		return r.handleServerAppError(op, res.ResultCode, res.Messages, res.FieldsErrors)
	}
	r.succeed(op)
	r.store.Dispatch(store.TodolistRenamed{ID: id, Title: title})
	return nil
}

// ChangeFilter sets the view filter of a todolist. It is local only.
func (r *Runner) ChangeFilter(id string, filter store.FilterValue) {
	r.store.Dispatch(store.TodolistFilterChanged{ID: id, Filter: filter})
}

// Reset drops all todolists and tasks, e.g. after logout.
func (r *Runner) Reset() {
	r.store.Dispatch(store.StateCleared{})
	r.store.Dispatch(store.AppInitialized{Value: false})
}
