package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
)

// DefaultTimeout bounds a single round trip when the caller sets no deadline
const DefaultTimeout = 30 * time.Second

// Client implements gateway.API against a remote Server
type Client struct {
	baseURL string
	http    *http.Client
}

var _ gateway.API = (*Client)(nil)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the server is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping %s: status %d", c.baseURL, resp.StatusCode)
	}
	return nil
}

// do performs one round trip for op. A nil in sends an empty body; a nil out
// discards the result.
func (c *Client) do(ctx context.Context, op string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc/"+op, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Code == "" {
			return &Error{Op: op, Status: resp.StatusCode, Code: CodeInternal, Message: fmt.Sprintf("status %d", resp.StatusCode)}
		}
		return &Error{Op: op, Status: resp.StatusCode, Code: eb.Code, Message: eb.Error}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) CreateProject(ctx context.Context, in model.CreateProject) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, gateway.OpCreateProject, in, &p)
	return p, err
}

func (c *Client) GetProjects(ctx context.Context) ([]model.Project, error) {
	var ps []model.Project
	if err := c.do(ctx, gateway.OpGetProjects, nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) UpdateProject(ctx context.Context, in model.UpdateProject) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, gateway.OpUpdateProject, in, &p)
	return p, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, gateway.OpDeleteProject, idRequest{ID: id}, nil)
}

func (c *Client) CreateTask(ctx context.Context, in model.CreateTask) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, gateway.OpCreateTask, in, &t)
	return t, err
}

func (c *Client) GetTasks(ctx context.Context) ([]model.Task, error) {
	return c.tasks(ctx, gateway.OpGetTasks, nil)
}

func (c *Client) GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return c.tasks(ctx, gateway.OpGetTasksByProject, projectIDRequest{ProjectID: projectID})
}

func (c *Client) UpdateTask(ctx context.Context, in model.UpdateTask) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, gateway.OpUpdateTask, in, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, gateway.OpDeleteTask, idRequest{ID: id}, nil)
}

func (c *Client) MarkTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, gateway.OpMarkTaskComplete, completeRequest{ID: id, Completed: completed}, &t)
	return t, err
}

func (c *Client) GetTodayTasks(ctx context.Context) ([]model.Task, error) {
	return c.tasks(ctx, gateway.OpGetTodayTasks, nil)
}

func (c *Client) GetUpcomingTasks(ctx context.Context) ([]model.Task, error) {
	return c.tasks(ctx, gateway.OpGetUpcomingTasks, nil)
}

func (c *Client) GetTaskStats(ctx context.Context) (model.TaskStats, error) {
	var s model.TaskStats
	err := c.do(ctx, gateway.OpGetTaskStats, nil, &s)
	return s, err
}

func (c *Client) tasks(ctx context.Context, op string, in any) ([]model.Task, error) {
	var ts []model.Task
	if err := c.do(ctx, op, in, &ts); err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []model.Task{}
	}
	return ts, nil
}
