package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/service"
)

type recorded struct {
	method string
	path   string
	header http.Header
	body   string
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.EscapedPath(), header: r.Header.Clone(), body: string(body)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL + "/api/1.1"
	opts.HTTPClient = srv.Client()
	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	return c, &calls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetTodolists(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"A","title":"Work","addedDate":"2023-05-10T12:30:00.123","order":0}]`)
	}, Options{APIKey: "secret"})

	lists, err := c.GetTodolists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "A", lists[0].ID)
	assert.Equal(t, "Work", lists[0].Title)
	assert.Equal(t, 2023, lists[0].AddedDate.Year())

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/1.1/todo-lists", call.path)
	assert.Equal(t, "secret", call.header.Get("API-KEY"))
	assert.NotEmpty(t, call.header.Get("X-Request-ID"))
}

func TestCreateTask(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"resultCode": 0,
			"messages":   []string{},
			"data": map[string]any{"item": map[string]any{
				"id": "T1", "todoListId": "A", "title": "Buy milk", "status": 0, "priority": 1,
				"startDate": nil, "deadline": nil,
			}},
		})
	}, Options{})

	res, err := c.CreateTask(context.Background(), "A", "Buy milk")
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "T1", res.Data.Item.ID)
	assert.Equal(t, service.PriorityMiddle, res.Data.Item.Priority)
	assert.Nil(t, res.Data.Item.StartDate)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/1.1/todo-lists/A/tasks", call.path)
	assert.JSONEq(t, `{"title":"Buy milk"}`, call.body)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
}

func TestUpdateTask_SendsFullModel(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"resultCode": 0, "data": map[string]any{"item": map[string]any{"id": "T1"}}})
	}, Options{})

	deadline := service.NewTimestamp(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	_, err := c.UpdateTask(context.Background(), "A", "T1", service.UpdateTaskModel{
		Title:    "t",
		Status:   service.StatusCompleted,
		Priority: service.PriorityUrgent,
		Deadline: deadline,
	})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/api/1.1/todo-lists/A/tasks/T1", call.path)
	assert.JSONEq(t, `{"title":"t","description":"","status":2,"priority":3,"startDate":null,"deadline":"2024-06-01T09:00:00Z"}`, call.body)
}

func TestDeclaredFailureIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"resultCode":   1,
			"messages":     []string{"Todolist not found"},
			"fieldsErrors": []map[string]string{{"field": "id", "error": "bad id"}},
			"data":         map[string]any{},
		})
	}, Options{})

	res, err := c.DeleteTodolist(context.Background(), "A")
	require.NoError(t, err)
	assert.False(t, res.Succeeded())
	assert.Equal(t, service.ResultReject, res.ResultCode)
	assert.Equal(t, []string{"Todolist not found"}, res.Messages)
	assert.Equal(t, "bad id", res.FieldsErrors[0].Error)
}

func TestNon2xxIsHTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}, Options{})

	_, err := c.GetTasks(context.Background(), "A")
	require.Error(t, err)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "nope", httpErr.Body)
	assert.Contains(t, err.Error(), "401")
}

func TestMalformedBodyIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}, Options{})

	_, err := c.UpdateTodolist(context.Background(), "A", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, Options{Timeout: 20 * time.Millisecond})

	_, err := c.GetTodolists(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestBearerToken(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{})
	}, Options{Token: "tok"})

	_, err := c.GetTodolists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", (*calls)[0].header.Get("Authorization"))
}

func TestPathEscaping(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"resultCode": 0})
	}, Options{})

	_, err := c.DeleteTask(context.Background(), "a/b", "c")
	require.NoError(t, err)
	assert.Equal(t, "/api/1.1/todo-lists/a%2Fb/tasks/c", (*calls)[0].path)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(context.Background(), Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}
