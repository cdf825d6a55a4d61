// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"todosync/internal/service"
)

// Method names used for call counting and rejection injection.
const (
	MethodGetTasks       = "GetTasks"
	MethodCreateTask     = "CreateTask"
	MethodUpdateTask     = "UpdateTask"
	MethodDeleteTask     = "DeleteTask"
	MethodGetTodolists   = "GetTodolists"
	MethodCreateTodolist = "CreateTodolist"
	MethodUpdateTodolist = "UpdateTodolist"
	MethodDeleteTodolist = "DeleteTodolist"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// Rejection makes a call answer with a declared failure.
type Rejection struct {
	Code         service.ResultCode
	Messages     []string
	FieldsErrors []service.FieldError
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu      sync.RWMutex
	lists   []service.Todolist
	tasks   map[string][]service.Task // listID -> tasks
	calls   map[string]int
	nextIDs []string
	updates []service.UpdateTaskModel

	// Error injection for testing (transport failures)
	GetTasksErr       map[string]error // listID -> error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	GetTodolistsErr   error
	CreateTodolistErr error
	UpdateTodolistErr error
	DeleteTodolistErr error

	// Rejections makes the named method answer with a non-zero result code.
	Rejections map[string]Rejection

	// OnCall, if set, runs at the start of every call. A non-nil return
	// is reported as a transport failure.
	OnCall func(ctx context.Context, method string) error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:       make(map[string][]service.Task),
		calls:       make(map[string]int),
		GetTasksErr: make(map[string]error),
		Rejections:  make(map[string]Rejection),
	}
}

// AddList adds a todolist to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.Todolist{ID: id, Title: title, Order: len(f.lists)})
	if f.tasks[id] == nil {
		f.tasks[id] = []service.Task{}
	}
}

// AddTask appends a task to a list.
func (f *FakeService) AddTask(listID, taskID, title string) {
	f.AddTaskWithStatus(listID, taskID, title, service.StatusNew)
}

// AddTaskWithStatus appends a task with the given status to a list.
func (f *FakeService) AddTaskWithStatus(listID, taskID, title string, status service.TaskStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], service.Task{
		ID:         taskID,
		TodoListID: listID,
		Title:      title,
		Status:     status,
		Order:      len(f.tasks[listID]),
	})
}

// QueueIDs sets the IDs handed out to the next created entities.
// Once exhausted, random UUIDs are used.
func (f *FakeService) QueueIDs(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextIDs = append(f.nextIDs, ids...)
}

// CallCount returns how many times method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Updates returns the update payloads received so far.
func (f *FakeService) Updates() []service.UpdateTaskModel {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.updates)
}

// Lists returns the todolists currently held by the fake.
func (f *FakeService) Lists() []service.Todolist {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.lists)
}

// Tasks returns the tasks of listID currently held by the fake.
func (f *FakeService) Tasks(listID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks[listID])
}

func (f *FakeService) enter(ctx context.Context, method string, injected error) error {
	f.mu.Lock()
	f.calls[method]++
	hook := f.OnCall
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, method); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return injected
}

func (f *FakeService) rejection(method string) (Rejection, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.Rejections[method]
	return r, ok
}

func reject[T any](r Rejection) service.Response[T] {
	return service.Response[T]{ResultCode: r.Code, Messages: r.Messages, FieldsErrors: r.FieldsErrors}
}

// newID must be called with f.mu held.
func (f *FakeService) newID() string {
	if len(f.nextIDs) > 0 {
		id := f.nextIDs[0]
		f.nextIDs = f.nextIDs[1:]
		return id
	}
	return uuid.NewString()
}

func (f *FakeService) listIndex(listID string) int {
	return slices.IndexFunc(f.lists, func(l service.Todolist) bool { return l.ID == listID })
}

// GetTasks implements service.Service.
func (f *FakeService) GetTasks(ctx context.Context, listID string) (service.GetTasksResponse, error) {
	f.mu.RLock()
	injected := f.GetTasksErr[listID]
	f.mu.RUnlock()
	if err := f.enter(ctx, MethodGetTasks, injected); err != nil {
		return service.GetTasksResponse{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return service.GetTasksResponse{}, ErrNotFound
	}
	return service.GetTasksResponse{Items: slices.Clone(tasks), TotalCount: len(tasks)}, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, listID, title string) (service.Response[service.ItemData[service.Task]], error) {
	if err := f.enter(ctx, MethodCreateTask, f.CreateTaskErr); err != nil {
		return service.Response[service.ItemData[service.Task]]{}, err
	}
	if r, ok := f.rejection(MethodCreateTask); ok {
		return reject[service.ItemData[service.Task]](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[listID]; !ok {
		return service.Response[service.ItemData[service.Task]]{}, ErrNotFound
	}
	task := service.Task{ID: f.newID(), TodoListID: listID, Title: title, Status: service.StatusNew}
	f.tasks[listID] = append([]service.Task{task}, f.tasks[listID]...)
	return service.Response[service.ItemData[service.Task]]{Data: service.ItemData[service.Task]{Item: task}}, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, listID, taskID string, model service.UpdateTaskModel) (service.Response[service.ItemData[service.Task]], error) {
	if err := f.enter(ctx, MethodUpdateTask, f.UpdateTaskErr); err != nil {
		return service.Response[service.ItemData[service.Task]]{}, err
	}
	f.mu.Lock()
	f.updates = append(f.updates, model)
	f.mu.Unlock()
	if r, ok := f.rejection(MethodUpdateTask); ok {
		return reject[service.ItemData[service.Task]](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks[listID] {
		if t.ID == taskID {
			t.Title = model.Title
			t.Description = model.Description
			t.Status = model.Status
			t.Priority = model.Priority
			t.StartDate = model.StartDate
			t.Deadline = model.Deadline
			f.tasks[listID][i] = t
			return service.Response[service.ItemData[service.Task]]{Data: service.ItemData[service.Task]{Item: t}}, nil
		}
	}
	return service.Response[service.ItemData[service.Task]]{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) (service.Response[service.Empty], error) {
	if err := f.enter(ctx, MethodDeleteTask, f.DeleteTaskErr); err != nil {
		return service.Response[service.Empty]{}, err
	}
	if r, ok := f.rejection(MethodDeleteTask); ok {
		return reject[service.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := f.tasks[listID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[listID] = slices.Delete(tasks, i, i+1)
			return service.Response[service.Empty]{}, nil
		}
	}
	return service.Response[service.Empty]{}, ErrNotFound
}

// GetTodolists implements service.Service.
func (f *FakeService) GetTodolists(ctx context.Context) ([]service.Todolist, error) {
	if err := f.enter(ctx, MethodGetTodolists, f.GetTodolistsErr); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.lists), nil
}

// CreateTodolist implements service.Service.
func (f *FakeService) CreateTodolist(ctx context.Context, title string) (service.Response[service.ItemData[service.Todolist]], error) {
	if err := f.enter(ctx, MethodCreateTodolist, f.CreateTodolistErr); err != nil {
		return service.Response[service.ItemData[service.Todolist]]{}, err
	}
	if r, ok := f.rejection(MethodCreateTodolist); ok {
		return reject[service.ItemData[service.Todolist]](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tl := service.Todolist{ID: f.newID(), Title: title, Order: -len(f.lists)}
	f.lists = append([]service.Todolist{tl}, f.lists...)
	f.tasks[tl.ID] = []service.Task{}
	return service.Response[service.ItemData[service.Todolist]]{Data: service.ItemData[service.Todolist]{Item: tl}}, nil
}

// UpdateTodolist implements service.Service.
func (f *FakeService) UpdateTodolist(ctx context.Context, listID, title string) (service.Response[service.Empty], error) {
	if err := f.enter(ctx, MethodUpdateTodolist, f.UpdateTodolistErr); err != nil {
		return service.Response[service.Empty]{}, err
	}
	if r, ok := f.rejection(MethodUpdateTodolist); ok {
		return reject[service.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.listIndex(listID)
	if idx == -1 {
		return service.Response[service.Empty]{}, ErrNotFound
	}
	f.lists[idx].Title = title
	return service.Response[service.Empty]{}, nil
}

// DeleteTodolist implements service.Service.
func (f *FakeService) DeleteTodolist(ctx context.Context, listID string) (service.Response[service.Empty], error) {
	if err := f.enter(ctx, MethodDeleteTodolist, f.DeleteTodolistErr); err != nil {
		return service.Response[service.Empty]{}, err
	}
	if r, ok := f.rejection(MethodDeleteTodolist); ok {
		return reject[service.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.listIndex(listID)
	if idx == -1 {
		return service.Response[service.Empty]{}, ErrNotFound
	}
	f.lists = slices.Delete(f.lists, idx, idx+1)
	delete(f.tasks, listID)
	return service.Response[service.Empty]{}, nil
}

var _ service.Service = (*FakeService)(nil)
