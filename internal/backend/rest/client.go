// Package rest implements service.Store over the conventional REST
// interface of a to-do backend (GET/POST /todos, PUT/DELETE /todos/:id).
package rest

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

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/service"
)

// CollectionPath is the path of the task collection.
const CollectionPath = "/todos"

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps 404 to service.ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return service.ErrNotFound
	}
	return nil
}

// Client implements service.Store against a REST task collection.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a client from the settings in cfg. When a token is
// configured every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	s := cfg.Settings
	if _, err := url.ParseRequestURI(s.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", s.BaseURL, err)
	}

	httpClient := http.DefaultClient
	if s.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return NewWithHTTPClient(s.BaseURL, s.Timeout, httpClient), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    httpClient,
	}
}

// List returns the full task collection.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, CollectionPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

type createRequest struct {
	Task string `json:"task"`
}

// Create posts a new task and returns the store's representation.
// The store normally omits completed for new tasks; it decodes as false.
func (c *Client) Create(ctx context.Context, text string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, CollectionPath, createRequest{Task: text}, &task); err != nil {
		return service.Task{}, err
	}
	if task.ID == "" {
		return service.Task{}, fmt.Errorf("POST %s: response has no id", CollectionPath)
	}
	if task.Text == "" {
		task.Text = text
	}
	return task, nil
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

// SetCompleted puts the completed flag. The response body is ignored.
func (c *Client) SetCompleted(ctx context.Context, id service.ID, completed bool) error {
	return c.do(ctx, http.MethodPut, itemPath(id), completedRequest{Completed: completed}, nil)
}

type renameRequest struct {
	Task string `json:"task"`
}

// Rename puts the new text. The response body is ignored.
func (c *Client) Rename(ctx context.Context, id service.ID, text string) error {
	return c.do(ctx, http.MethodPut, itemPath(id), renameRequest{Task: text}, nil)
}

// Delete removes a task. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id service.ID) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id service.ID) string {
	return CollectionPath + "/" + url.PathEscape(id.String())
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("store request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(method, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: request timed out", method, path)
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}
