package store

import "todosync/internal/service"

// SelectTasks returns all tasks keyed by todolist ID.
func SelectTasks(state RootState) TaskCollection {
	return state.Tasks
}

// SelectTodolists returns the todolists in display order.
func SelectTodolists(state RootState) []TodolistDomain {
	return state.Todolists
}

// SelectAppStatus returns the global request status.
func SelectAppStatus(state RootState) RequestStatus {
	return state.App.Status
}

// SelectAppError returns the last error message, or "" if none.
func SelectAppError(state RootState) string {
	if state.App.Error == nil {
		return ""
	}
	return *state.App.Error
}

// SelectIsInitialized reports whether the first full load completed.
func SelectIsInitialized(state RootState) bool {
	return state.App.IsInitialized
}

// SelectTodolist returns the todolist with id.
func SelectTodolist(state RootState, id string) (TodolistDomain, bool) {
	idx := indexOf(state.Todolists, id)
	if idx == -1 {
		return TodolistDomain{}, false
	}
	return state.Todolists[idx], true
}

// SelectTasksForList returns the tasks of one todolist.
func SelectTasksForList(state RootState, id string) []service.Task {
	return state.Tasks[id]
}

// SelectFilteredTasks returns the tasks of a todolist that pass its filter.
// Active shows new tasks, Completed shows completed ones.
func SelectFilteredTasks(state RootState, id string) []service.Task {
	tl, ok := SelectTodolist(state, id)
	tasks := state.Tasks[id]
	if !ok {
		return tasks
	}
	return FilterTasks(tasks, tl.Filter)
}

// FilterTasks applies filter to tasks.
func FilterTasks(tasks []service.Task, filter FilterValue) []service.Task {
	if filter != FilterActive && filter != FilterCompleted {
		return tasks
	}
	var result []service.Task
	for _, t := range tasks {
		if matchesFilter(t, filter) {
			result = append(result, t)
		}
	}
	return result
}

// matchesFilter reports whether task is shown under filter.
func matchesFilter(task service.Task, filter FilterValue) bool {
	switch filter {
	case FilterActive:
		return task.Status == service.StatusNew
	case FilterCompleted:
		return task.Status == service.StatusCompleted
	default:
		return true
	}
}
