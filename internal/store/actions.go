package store

import "todosync/internal/service"

// Action is a state transition request. Each concrete type is one outcome
// of one operation; reducers switch on the type.
type Action interface {
	Type() string
}

// AppStatusChanged sets the global request status.
type AppStatusChanged struct{ Status RequestStatus }

// AppErrorSet sets or clears (nil) the global error message.
type AppErrorSet struct{ Error *string }

// AppInitialized marks the first full load as done.
type AppInitialized struct{ Value bool }

// TasksFetched carries the tasks of one todolist after a fetch.
type TasksFetched struct {
	ListID string
	Tasks  []service.Task
}

// TaskAdded carries a task created by the API.
type TaskAdded struct{ Task service.Task }

// TaskUpdated carries an accepted partial update.
type TaskUpdated struct {
	ListID string
	TaskID string
	Model  UpdateDomainTaskModel
}

// TaskRemoved identifies a deleted task.
type TaskRemoved struct {
	ListID string
	TaskID string
}

// TodolistsFetched carries the full todolist collection after a fetch.
type TodolistsFetched struct{ Todolists []service.Todolist }

// TodolistAdded carries a todolist created by the API.
type TodolistAdded struct{ Todolist service.Todolist }

// TodolistRemoved identifies a deleted todolist.
type TodolistRemoved struct{ ID string }

// TodolistRenamed carries an accepted title change.
type TodolistRenamed struct {
	ID    string
	Title string
}

// TodolistFilterChanged sets the view filter of a todolist.
type TodolistFilterChanged struct {
	ID     string
	Filter FilterValue
}

// TodolistEntityStatusChanged sets the per-list request status.
type TodolistEntityStatusChanged struct {
	ID     string
	Status RequestStatus
}

// StateCleared drops all todolists and tasks.
type StateCleared struct{}

func (AppStatusChanged) Type() string            { return "app/setStatus" }
func (AppErrorSet) Type() string                 { return "app/setError" }
func (AppInitialized) Type() string              { return "app/setInitialized" }
func (TasksFetched) Type() string                { return "tasks/fetched" }
func (TaskAdded) Type() string                   { return "tasks/added" }
func (TaskUpdated) Type() string                 { return "tasks/updated" }
func (TaskRemoved) Type() string                 { return "tasks/removed" }
func (TodolistsFetched) Type() string            { return "todolists/fetched" }
func (TodolistAdded) Type() string               { return "todolists/added" }
func (TodolistRemoved) Type() string             { return "todolists/removed" }
func (TodolistRenamed) Type() string             { return "todolists/renamed" }
func (TodolistFilterChanged) Type() string       { return "todolists/filterChanged" }
func (TodolistEntityStatusChanged) Type() string { return "todolists/entityStatusChanged" }
func (StateCleared) Type() string                { return "state/cleared" }
