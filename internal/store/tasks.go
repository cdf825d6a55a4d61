package store

import (
	"slices"

	"todosync/internal/service"
)

// TaskCollection maps a todolist ID to its tasks in display order.
//
// Every todolist in the store has an entry here, possibly empty, and no
// entry exists for an unknown todolist. Methods never modify the receiver;
// they return a new collection sharing untouched entries.
type TaskCollection map[string][]service.Task

// UpdateDomainTaskModel is a partial task update. Nil fields are not part
// of the update and keep their current value.
type UpdateDomainTaskModel struct {
	Title       *string
	Description *string
	Status      *service.TaskStatus
	Priority    *service.TaskPriority
	StartDate   *service.Timestamp
	Deadline    *service.Timestamp
}

// IsEmpty reports whether the update carries no field.
func (m UpdateDomainTaskModel) IsEmpty() bool {
	return m == UpdateDomainTaskModel{}
}

// ApplyTo returns task with the present fields of m merged in.
func (m UpdateDomainTaskModel) ApplyTo(task service.Task) service.Task {
	if m.Title != nil {
		task.Title = *m.Title
	}
	if m.Description != nil {
		task.Description = *m.Description
	}
	if m.Status != nil {
		task.Status = *m.Status
	}
	if m.Priority != nil {
		task.Priority = *m.Priority
	}
	if m.StartDate != nil {
		task.StartDate = dateValue(m.StartDate)
	}
	if m.Deadline != nil {
		task.Deadline = dateValue(m.Deadline)
	}
	return task
}

// dateValue copies d. A zero date clears the field, matching the null the
// API stores for it.
func dateValue(d *service.Timestamp) *service.Timestamp {
	if d.IsZero() {
		return nil
	}
	v := *d
	return &v
}

// FullUpdateModel builds the outgoing update payload: a snapshot of every
// mutable field of task with m merged on top.
func (m UpdateDomainTaskModel) FullUpdateModel(task service.Task) service.UpdateTaskModel {
	merged := m.ApplyTo(task)
	return service.UpdateTaskModel{
		Title:       merged.Title,
		Description: merged.Description,
		Status:      merged.Status,
		Priority:    merged.Priority,
		StartDate:   merged.StartDate,
		Deadline:    merged.Deadline,
	}
}

func (c TaskCollection) clone() TaskCollection {
	next := make(TaskCollection, len(c)+1)
	for id, tasks := range c {
		next[id] = tasks
	}
	return next
}

// Clone returns a deep copy of the collection.
func (c TaskCollection) Clone() TaskCollection {
	next := make(TaskCollection, len(c))
	for id, tasks := range c {
		next[id] = slices.Clone(tasks)
		if next[id] == nil {
			next[id] = []service.Task{}
		}
	}
	return next
}

// Find returns the task with taskID in listID.
func (c TaskCollection) Find(listID, taskID string) (service.Task, bool) {
	for _, t := range c[listID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return service.Task{}, false
}

// SetTasksForList replaces all tasks of listID, creating the entry if needed.
func (c TaskCollection) SetTasksForList(listID string, tasks []service.Task) TaskCollection {
	next := c.clone()
	next[listID] = append([]service.Task{}, tasks...)
	return next
}

// PrependTask inserts task at the front of its todolist. The entry is
// created together with the insertion when it does not exist yet.
func (c TaskCollection) PrependTask(task service.Task) TaskCollection {
	next := c.clone()
	current := c[task.TodoListID]
	tasks := make([]service.Task, 0, len(current)+1)
	tasks = append(tasks, task)
	tasks = append(tasks, current...)
	next[task.TodoListID] = tasks
	return next
}

// MergeTaskFields merges the present fields of partial into the task.
// Unknown lists and tasks are ignored.
func (c TaskCollection) MergeTaskFields(listID, taskID string, partial UpdateDomainTaskModel) TaskCollection {
	current, ok := c[listID]
	if !ok {
		return c
	}
	idx := slices.IndexFunc(current, func(t service.Task) bool { return t.ID == taskID })
	if idx == -1 {
		return c
	}
	tasks := slices.Clone(current)
	tasks[idx] = partial.ApplyTo(tasks[idx])

	next := c.clone()
	next[listID] = tasks
	return next
}

// RemoveTask deletes the task from its list. Unknown lists and tasks are ignored.
func (c TaskCollection) RemoveTask(listID, taskID string) TaskCollection {
	current, ok := c[listID]
	if !ok {
		return c
	}
	idx := slices.IndexFunc(current, func(t service.Task) bool { return t.ID == taskID })
	if idx == -1 {
		return c
	}
	next := c.clone()
	next[listID] = slices.Delete(slices.Clone(current), idx, idx+1)
	return next
}

// CreateEmptyListEntry adds an empty entry for a new todolist.
func (c TaskCollection) CreateEmptyListEntry(listID string) TaskCollection {
	next := c.clone()
	next[listID] = []service.Task{}
	return next
}

// DeleteListEntry drops the entry of a removed todolist.
func (c TaskCollection) DeleteListEntry(listID string) TaskCollection {
	if _, ok := c[listID]; !ok {
		return c
	}
	next := c.clone()
	delete(next, listID)
	return next
}

// ReplaceAllListEntries resets the collection to one empty entry per listID.
func (c TaskCollection) ReplaceAllListEntries(listIDs []string) TaskCollection {
	next := make(TaskCollection, len(listIDs))
	for _, id := range listIDs {
		next[id] = []service.Task{}
	}
	return next
}

func reduceTasks(state TaskCollection, action Action) TaskCollection {
	switch a := action.(type) {
	case TasksFetched:
		return state.SetTasksForList(a.ListID, a.Tasks)
	case TaskAdded:
		return state.PrependTask(a.Task)
	case TaskUpdated:
		return state.MergeTaskFields(a.ListID, a.TaskID, a.Model)
	case TaskRemoved:
		return state.RemoveTask(a.ListID, a.TaskID)
	case TodolistAdded:
		return state.CreateEmptyListEntry(a.Todolist.ID)
	case TodolistRemoved:
		return state.DeleteListEntry(a.ID)
	case TodolistsFetched:
		ids := make([]string, len(a.Todolists))
		for i, tl := range a.Todolists {
			ids[i] = tl.ID
		}
		return state.ReplaceAllListEntries(ids)
	case StateCleared:
		return TaskCollection{}
	}
	return state
}
