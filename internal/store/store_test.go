package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/service"
)

func TestInitialState(t *testing.T) {
	s := New(nil)
	state := s.GetState()

	assert.Equal(t, StatusIdle, SelectAppStatus(state))
	assert.Empty(t, SelectAppError(state))
	assert.False(t, SelectIsInitialized(state))
	assert.Empty(t, SelectTodolists(state))
	assert.Empty(t, SelectTasks(state))
}

func TestTodolistsFetched_InitializesTaskEntries(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A", Title: "Work"}}})

	state := s.GetState()
	require.Len(t, SelectTodolists(state), 1)
	tl := SelectTodolists(state)[0]
	assert.Equal(t, "A", tl.ID)
	assert.Equal(t, "Work", tl.Title)
	assert.Equal(t, FilterAll, tl.Filter)
	assert.Equal(t, StatusIdle, tl.EntityStatus)
	assert.Equal(t, TaskCollection{"A": {}}, SelectTasks(state))
}

func TestTodolistLifecycleKeepsTaskEntriesInSync(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A"}, {ID: "B"}}})
	s.Dispatch(TodolistAdded{Todolist: service.Todolist{ID: "C"}})
	s.Dispatch(TaskAdded{Task: task("C", "1", "one")})
	s.Dispatch(TodolistRemoved{ID: "A"})

	state := s.GetState()
	var listIDs []string
	for _, tl := range state.Todolists {
		listIDs = append(listIDs, tl.ID)
		assert.Contains(t, state.Tasks, tl.ID)
	}
	assert.Equal(t, []string{"C", "B"}, listIDs)
	assert.Len(t, state.Tasks, 2)
	assert.NotContains(t, state.Tasks, "A")

	// Re-fetching without C drops its entry.
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "B"}}})
	assert.Equal(t, TaskCollection{"B": {}}, s.GetState().Tasks)
}

func TestTasksForRemovedListAreDropped(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A"}, {ID: "B"}}})
	s.Dispatch(TodolistRemoved{ID: "A"})

	s.Dispatch(TaskAdded{Task: task("A", "1", "late")})
	s.Dispatch(TasksFetched{ListID: "A", Tasks: []service.Task{task("A", "2", "late")}})

	assert.Equal(t, TaskCollection{"B": {}}, s.GetState().Tasks)
}

func TestAppReducer(t *testing.T) {
	s := New(nil)
	msg := "boom"
	s.Dispatch(AppStatusChanged{Status: StatusFailed})
	s.Dispatch(AppErrorSet{Error: &msg})
	s.Dispatch(AppInitialized{Value: true})
	msg = "mutated"

	state := s.GetState()
	assert.Equal(t, StatusFailed, SelectAppStatus(state))
	assert.Equal(t, "boom", SelectAppError(state))
	assert.True(t, SelectIsInitialized(state))

	s.Dispatch(AppErrorSet{Error: nil})
	assert.Empty(t, SelectAppError(s.GetState()))
}

func TestStateCleared(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A"}}})
	s.Dispatch(StateCleared{})

	state := s.GetState()
	assert.Empty(t, state.Todolists)
	assert.Empty(t, state.Tasks)
}

func TestGetState_IsDetached(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A", Title: "Work"}}})
	s.Dispatch(TaskAdded{Task: task("A", "1", "one")})

	snapshot := s.GetState()
	snapshot.Todolists[0].Title = "changed"
	snapshot.Tasks["A"][0].Title = "changed"

	state := s.GetState()
	assert.Equal(t, "Work", state.Todolists[0].Title)
	assert.Equal(t, "one", state.Tasks["A"][0].Title)
}

func TestSubscribe(t *testing.T) {
	s := New(nil)
	var got []RequestStatus
	unsubscribe := s.Subscribe(func(state RootState) {
		got = append(got, state.App.Status)
	})

	s.Dispatch(AppStatusChanged{Status: StatusLoading})
	s.Dispatch(AppStatusChanged{Status: StatusSucceeded})
	unsubscribe()
	s.Dispatch(AppStatusChanged{Status: StatusIdle})

	assert.Equal(t, []RequestStatus{StatusLoading, StatusSucceeded}, got)
}

func TestDispatch_Concurrent(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A"}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(TaskAdded{Task: task("A", string(rune('a'+i%26))+"x", "t")})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.GetState().Tasks["A"], 50)
}

func TestSelectFilteredTasks(t *testing.T) {
	s := New(nil)
	s.Dispatch(TodolistsFetched{Todolists: []service.Todolist{{ID: "A"}}})
	s.Dispatch(TasksFetched{ListID: "A", Tasks: []service.Task{
		{ID: "1", TodoListID: "A", Status: service.StatusNew},
		{ID: "2", TodoListID: "A", Status: service.StatusCompleted},
		{ID: "3", TodoListID: "A", Status: service.StatusInProgress},
	}})

	assert.Equal(t, []string{"1", "2", "3"}, ids(SelectFilteredTasks(s.GetState(), "A")))

	s.Dispatch(TodolistFilterChanged{ID: "A", Filter: FilterActive})
	assert.Equal(t, []string{"1"}, ids(SelectFilteredTasks(s.GetState(), "A")))

	s.Dispatch(TodolistFilterChanged{ID: "A", Filter: FilterCompleted})
	assert.Equal(t, []string{"2"}, ids(SelectFilteredTasks(s.GetState(), "A")))

	_, ok := SelectTodolist(s.GetState(), "missing")
	assert.False(t, ok)
}

func TestMatchesFilter(t *testing.T) {
	open := service.Task{ID: "1", Status: service.StatusNew}
	busy := service.Task{ID: "2", Status: service.StatusInProgress}
	done := service.Task{ID: "3", Status: service.StatusCompleted}

	assert.True(t, matchesFilter(busy, FilterAll))
	assert.True(t, matchesFilter(open, FilterActive))
	assert.False(t, matchesFilter(busy, FilterActive))
	assert.False(t, matchesFilter(done, FilterActive))
	assert.True(t, matchesFilter(done, FilterCompleted))
	assert.False(t, matchesFilter(open, FilterCompleted))
}
