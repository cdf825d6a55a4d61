package store

import (
	"slices"

	"todosync/internal/service"
)

// TodolistDomain is a todolist with its UI-only annotations.
type TodolistDomain struct {
	service.Todolist
	Filter       FilterValue
	EntityStatus RequestStatus
}

func newTodolistDomain(tl service.Todolist) TodolistDomain {
	return TodolistDomain{Todolist: tl, Filter: FilterAll, EntityStatus: StatusIdle}
}

// SetAll replaces the collection with fetched todolists, keeping server order.
func SetAll(todolists []service.Todolist) []TodolistDomain {
	next := make([]TodolistDomain, len(todolists))
	for i, tl := range todolists {
		next[i] = newTodolistDomain(tl)
	}
	return next
}

// PrependTodolist inserts a newly created todolist at the front.
func PrependTodolist(state []TodolistDomain, tl service.Todolist) []TodolistDomain {
	next := make([]TodolistDomain, 0, len(state)+1)
	next = append(next, newTodolistDomain(tl))
	return append(next, state...)
}

// RemoveTodolist drops the todolist with id. Unknown ids are ignored.
func RemoveTodolist(state []TodolistDomain, id string) []TodolistDomain {
	idx := indexOf(state, id)
	if idx == -1 {
		return state
	}
	return slices.Delete(slices.Clone(state), idx, idx+1)
}

// RenameTodolist sets the title of the todolist with id.
func RenameTodolist(state []TodolistDomain, id, title string) []TodolistDomain {
	return update(state, id, func(tl *TodolistDomain) { tl.Title = title })
}

// SetFilter sets the filter of the todolist with id.
func SetFilter(state []TodolistDomain, id string, filter FilterValue) []TodolistDomain {
	return update(state, id, func(tl *TodolistDomain) { tl.Filter = filter })
}

// SetEntityStatus sets the entity status of the todolist with id.
func SetEntityStatus(state []TodolistDomain, id string, status RequestStatus) []TodolistDomain {
	return update(state, id, func(tl *TodolistDomain) { tl.EntityStatus = status })
}

func indexOf(state []TodolistDomain, id string) int {
	return slices.IndexFunc(state, func(tl TodolistDomain) bool { return tl.ID == id })
}

func update(state []TodolistDomain, id string, fn func(*TodolistDomain)) []TodolistDomain {
	idx := indexOf(state, id)
	if idx == -1 {
		return state
	}
	next := slices.Clone(state)
	fn(&next[idx])
	return next
}

func reduceTodolists(state []TodolistDomain, action Action) []TodolistDomain {
	switch a := action.(type) {
	case TodolistsFetched:
		return SetAll(a.Todolists)
	case TodolistAdded:
		return PrependTodolist(state, a.Todolist)
	case TodolistRemoved:
		return RemoveTodolist(state, a.ID)
	case TodolistRenamed:
		return RenameTodolist(state, a.ID, a.Title)
	case TodolistFilterChanged:
		return SetFilter(state, a.ID, a.Filter)
	case TodolistEntityStatusChanged:
		return SetEntityStatus(state, a.ID, a.Status)
	case StateCleared:
		return []TodolistDomain{}
	}
	return state
}
