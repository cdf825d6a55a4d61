// Package googletasks exposes Google Tasks through service.Service.
//
// Task lists map to todolists and tasks map to tasks. Google Tasks has no
// priority or start date; those fields are accepted on update and dropped.
// Google reports failures as HTTP errors, so every response that arrives
// carries ResultSucceeded.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todosync/internal/config"
	"todosync/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 10 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// The token source refreshes expired access tokens.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, timeout: cfg.Settings.Timeout}, nil
}

// LoadOAuthConfig reads oauth_client.json for the tasks scope.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and
// endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func toTodolist(l *tasks.TaskList, order int) service.Todolist {
	tl := service.Todolist{ID: l.Id, Title: l.Title, Order: order}
	if ts, err := service.ParseTimestamp(l.Updated); err == nil {
		tl.AddedDate = ts
	}
	return tl
}

func toTask(listID string, t *tasks.Task, order int) service.Task {
	task := service.Task{
		ID:          t.Id,
		TodoListID:  listID,
		Title:       t.Title,
		Description: t.Notes,
		Status:      service.StatusNew,
		Order:       order,
	}
	if t.Status == statusCompleted {
		task.Status = service.StatusCompleted
	}
	if t.Due != "" {
		if ts, err := service.ParseTimestamp(t.Due); err == nil {
			task.Deadline = &ts
		}
	}
	if ts, err := service.ParseTimestamp(t.Updated); err == nil {
		task.AddedDate = ts
	}
	return task
}

func fromUpdateModel(taskID string, m service.UpdateTaskModel) *tasks.Task {
	t := &tasks.Task{
		Id:     taskID,
		Title:  m.Title,
		Notes:  m.Description,
		Status: statusNeedsAction,
	}
	if m.Status == service.StatusCompleted {
		t.Status = statusCompleted
	}
	if m.Deadline != nil && !m.Deadline.IsZero() {
		t.Due = m.Deadline.UTC().Format(time.RFC3339)
	}
	return t
}

func succeeded[T any](data T) service.Response[T] {
	return service.Response[T]{ResultCode: service.ResultSucceeded, Data: data}
}

// GetTodolists implements service.Service.
func (c *Client) GetTodolists(ctx context.Context) ([]service.Todolist, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var result []service.Todolist
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, toTodolist(list, len(result)))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTodolist implements service.Service.
func (c *Client) CreateTodolist(ctx context.Context, title string) (service.Response[service.ItemData[service.Todolist]], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Response[service.ItemData[service.Todolist]]{}, wrapError(err)
	}
	return succeeded(service.ItemData[service.Todolist]{Item: toTodolist(list, 0)}), nil
}

// UpdateTodolist implements service.Service.
func (c *Client) UpdateTodolist(ctx context.Context, listID, title string) (service.Response[service.Empty], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.svc.Tasklists.Patch(listID, &tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Response[service.Empty]{}, wrapError(err)
	}
	return succeeded(service.Empty{}), nil
}

// DeleteTodolist implements service.Service.
func (c *Client) DeleteTodolist(ctx context.Context, listID string) (service.Response[service.Empty], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.svc.Tasklists.Delete(listID).Context(ctx).Do(); err != nil {
		return service.Response[service.Empty]{}, wrapError(err)
	}
	return succeeded(service.Empty{}), nil
}

// GetTasks implements service.Service. Completed and hidden tasks are
// included so the completed filter has something to show.
func (c *Client) GetTasks(ctx context.Context, listID string) (service.GetTasksResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var items []service.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				items = append(items, toTask(listID, t, len(items)))
			}
			return nil
		})
	if err != nil {
		return service.GetTasksResponse{}, wrapError(err)
	}
	return service.GetTasksResponse{Items: items, TotalCount: len(items)}, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, listID, title string) (service.Response[service.ItemData[service.Task]], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	t, err := c.svc.Tasks.Insert(listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Response[service.ItemData[service.Task]]{}, wrapError(err)
	}
	return succeeded(service.ItemData[service.Task]{Item: toTask(listID, t, 0)}), nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, model service.UpdateTaskModel) (service.Response[service.ItemData[service.Task]], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	t, err := c.svc.Tasks.Update(listID, taskID, fromUpdateModel(taskID, model)).Context(ctx).Do()
	if err != nil {
		return service.Response[service.ItemData[service.Task]]{}, wrapError(err)
	}
	return succeeded(service.ItemData[service.Task]{Item: toTask(listID, t, 0)}), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) (service.Response[service.Empty], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return service.Response[service.Empty]{}, wrapError(err)
	}
	return succeeded(service.Empty{}), nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: todosync login): %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("not found: %w", err)
		}
	}
	return err
}

var _ service.Service = (*Client)(nil)
