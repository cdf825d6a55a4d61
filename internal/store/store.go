// Package store holds the client-side state of todolists and their tasks.
//
// State only changes through Dispatch. Reducers are pure: they receive the
// current state and an Action and return the next state without touching
// the previous one, so snapshots handed out by GetState stay valid.
package store

import (
	"slices"
	"sync"

	"todosync/internal/log"
)

// RootState is the whole client state.
type RootState struct {
	App       AppState
	Todolists []TodolistDomain
	Tasks     TaskCollection
}

// InitialState returns the state at startup: Idle, no lists, no tasks.
func InitialState() RootState {
	return RootState{
		App:       initialAppState(),
		Todolists: []TodolistDomain{},
		Tasks:     TaskCollection{},
	}
}

// Reduce applies action to state and returns the next state.
func Reduce(state RootState, action Action) RootState {
	next := RootState{
		App:       reduceApp(state.App, action),
		Todolists: reduceTodolists(state.Todolists, action),
		Tasks:     state.Tasks,
	}
	if !targetsRemovedList(state, action) {
		next.Tasks = reduceTasks(state.Tasks, action)
	}
	return next
}

// targetsRemovedList reports whether action inserts tasks into a todolist
// that is no longer in the state. That happens when a fetch or create
// completes after the list was removed; the tasks are dropped so every
// task entry keeps a matching todolist.
func targetsRemovedList(state RootState, action Action) bool {
	var listID string
	switch a := action.(type) {
	case TasksFetched:
		listID = a.ListID
	case TaskAdded:
		listID = a.Task.TodoListID
	default:
		return false
	}
	return indexOf(state.Todolists, listID) < 0
}

// Listener is notified with the new state after every dispatch.
type Listener func(RootState)

// Store serializes all state transitions. It is safe for concurrent use;
// operations running in parallel have their mutations applied in arrival
// order.
type Store struct {
	mu        sync.Mutex
	state     RootState
	listeners map[int]Listener
	nextID    int
	log       log.Logger
}

// New creates a Store in the initial state.
func New(logger log.Logger) *Store {
	return NewWithState(logger, InitialState())
}

// NewWithState creates a Store preloaded with state.
func NewWithState(logger log.Logger, state RootState) *Store {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	if state.Tasks == nil {
		state.Tasks = TaskCollection{}
	}
	if state.Todolists == nil {
		state.Todolists = []TodolistDomain{}
	}
	return &Store{
		state:     state,
		listeners: make(map[int]Listener),
		log:       logger,
	}
}

// Dispatch applies action and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	snapshot := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.log.Debug("dispatch", "action", action.Type())
	for _, l := range listeners {
		l(snapshot.Clone())
	}
}

// GetState returns a detached copy of the current state.
func (s *Store) GetState() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Clone returns a deep copy of the state.
func (r RootState) Clone() RootState {
	next := RootState{
		App:       r.App,
		Todolists: slices.Clone(r.Todolists),
		Tasks:     r.Tasks.Clone(),
	}
	if next.Todolists == nil {
		next.Todolists = []TodolistDomain{}
	}
	if r.App.Error != nil {
		msg := *r.App.Error
		next.App.Error = &msg
	}
	return next
}
