// Package httpapi implements service.Service against the todolist REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"todosync/internal/log"
	"todosync/internal/service"
)

const (
	// DefaultBaseURL is the public todolist API.
	DefaultBaseURL = "https://social-network.samuraijs.com/api/1.1/"

	// APITimeout is the default timeout for API calls.
	APITimeout = 10 * time.Second

	// apiKeyHeader carries the API key on every request.
	apiKeyHeader = "API-KEY"

	// requestIDHeader correlates client logs with server logs.
	requestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 512
)

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures a Client.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is sent in the API-KEY header when non-empty.
	APIKey string

	// Token, when non-empty, is sent as an OAuth2 bearer token.
	Token string

	// Timeout bounds every call; defaults to APITimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport (for testing).
	HTTPClient *http.Client

	Logger log.Logger
}

// Client implements service.Service over HTTP.
type Client struct {
	base    *url.URL
	apiKey  string
	timeout time.Duration
	http    *http.Client
	log     log.Logger
}

// New creates a new API client.
func New(ctx context.Context, opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: unsupported scheme %q", base.Scheme)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.Token != "" {
		// Bearer tokens are attached by the oauth2 transport.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.Token,
			TokenType:   "Bearer",
		}))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNullLogger()
	}

	return &Client{
		base:    base,
		apiKey:  opts.APIKey,
		timeout: timeout,
		http:    httpClient,
		log:     logger,
	}, nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	logger := c.log.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return wrapError(err)
	}
	defer resp.Body.Close()
	logger.Debug("response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: empty body")
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wrapError turns transport errors into short messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}

func listPath(listID string) string {
	return "todo-lists/" + url.PathEscape(listID)
}

func tasksPath(listID string) string {
	return listPath(listID) + "/tasks"
}

func taskPath(listID, taskID string) string {
	return tasksPath(listID) + "/" + url.PathEscape(taskID)
}

type titleRequest struct {
	Title string `json:"title"`
}

// GetTasks implements service.Service.
func (c *Client) GetTasks(ctx context.Context, listID string) (service.GetTasksResponse, error) {
	var res service.GetTasksResponse
	err := c.do(ctx, http.MethodGet, tasksPath(listID), nil, &res)
	return res, err
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, listID, title string) (service.Response[service.ItemData[service.Task]], error) {
	var res service.Response[service.ItemData[service.Task]]
	err := c.do(ctx, http.MethodPost, tasksPath(listID), titleRequest{Title: title}, &res)
	return res, err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, model service.UpdateTaskModel) (service.Response[service.ItemData[service.Task]], error) {
	var res service.Response[service.ItemData[service.Task]]
	err := c.do(ctx, http.MethodPut, taskPath(listID, taskID), model, &res)
	return res, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) (service.Response[service.Empty], error) {
	var res service.Response[service.Empty]
	err := c.do(ctx, http.MethodDelete, taskPath(listID, taskID), nil, &res)
	return res, err
}

// GetTodolists implements service.Service.
func (c *Client) GetTodolists(ctx context.Context) ([]service.Todolist, error) {
	var res []service.Todolist
	err := c.do(ctx, http.MethodGet, "todo-lists", nil, &res)
	return res, err
}

// CreateTodolist implements service.Service.
func (c *Client) CreateTodolist(ctx context.Context, title string) (service.Response[service.ItemData[service.Todolist]], error) {
	var res service.Response[service.ItemData[service.Todolist]]
	err := c.do(ctx, http.MethodPost, "todo-lists", titleRequest{Title: title}, &res)
	return res, err
}

// UpdateTodolist implements service.Service.
func (c *Client) UpdateTodolist(ctx context.Context, listID, title string) (service.Response[service.Empty], error) {
	var res service.Response[service.Empty]
	err := c.do(ctx, http.MethodPut, listPath(listID), titleRequest{Title: title}, &res)
	return res, err
}

// DeleteTodolist implements service.Service.
func (c *Client) DeleteTodolist(ctx context.Context, listID string) (service.Response[service.Empty], error) {
	var res service.Response[service.Empty]
	err := c.do(ctx, http.MethodDelete, listPath(listID), nil, &res)
	return res, err
}

var _ service.Service = (*Client)(nil)
