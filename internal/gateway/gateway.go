package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/model"
)

// Gateway validates inputs, then forwards each call to the backend exactly
// once. Backend errors come back wrapped with the operation name.
type Gateway struct {
	api     API
	log     zerolog.Logger
	timeout time.Duration
}

var _ API = (*Gateway)(nil)

// Option configures a Gateway
type Option func(*Gateway)

// WithTimeout bounds every call by d; zero disables the bound
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger sets the logger used for call tracing
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// New wraps a backend
func New(api API, opts ...Option) *Gateway {
	g := &Gateway{api: api, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With().Str("component", "gateway").Logger()
	return g
}

// call runs fn under the gateway timeout and traces the outcome
func call[T any](ctx context.Context, g *Gateway, op string, fn func(context.Context) (T, error)) (T, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		g.log.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("call failed")
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	g.log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("call")
	return out, nil
}

func callErr(ctx context.Context, g *Gateway, op string, fn func(context.Context) error) error {
	_, err := call(ctx, g, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func rejected(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// CreateProject creates a project
func (g *Gateway) CreateProject(ctx context.Context, in model.CreateProject) (model.Project, error) {
	if err := in.Validate(); err != nil {
		return model.Project{}, rejected(OpCreateProject, err)
	}
	return call(ctx, g, OpCreateProject, func(ctx context.Context) (model.Project, error) {
		return g.api.CreateProject(ctx, in)
	})
}

// GetProjects lists all projects
func (g *Gateway) GetProjects(ctx context.Context) ([]model.Project, error) {
	return call(ctx, g, OpGetProjects, g.api.GetProjects)
}

// UpdateProject changes the provided project fields
func (g *Gateway) UpdateProject(ctx context.Context, in model.UpdateProject) (model.Project, error) {
	if err := in.Validate(); err != nil {
		return model.Project{}, rejected(OpUpdateProject, err)
	}
	return call(ctx, g, OpUpdateProject, func(ctx context.Context) (model.Project, error) {
		return g.api.UpdateProject(ctx, in)
	})
}

// DeleteProject deletes a project and its tasks
func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	if err := model.RequireID("id", id); err != nil {
		return rejected(OpDeleteProject, err)
	}
	return callErr(ctx, g, OpDeleteProject, func(ctx context.Context) error {
		return g.api.DeleteProject(ctx, id)
	})
}

// CreateTask creates a task
func (g *Gateway) CreateTask(ctx context.Context, in model.CreateTask) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, rejected(OpCreateTask, err)
	}
	return call(ctx, g, OpCreateTask, func(ctx context.Context) (model.Task, error) {
		return g.api.CreateTask(ctx, in)
	})
}

// GetTasks lists all tasks
func (g *Gateway) GetTasks(ctx context.Context) ([]model.Task, error) {
	return call(ctx, g, OpGetTasks, g.api.GetTasks)
}

// GetTasksByProject lists the tasks of one project
func (g *Gateway) GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := model.RequireID("project_id", projectID); err != nil {
		return nil, rejected(OpGetTasksByProject, err)
	}
	return call(ctx, g, OpGetTasksByProject, func(ctx context.Context) ([]model.Task, error) {
		return g.api.GetTasksByProject(ctx, projectID)
	})
}

// UpdateTask changes the provided task fields
func (g *Gateway) UpdateTask(ctx context.Context, in model.UpdateTask) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, rejected(OpUpdateTask, err)
	}
	return call(ctx, g, OpUpdateTask, func(ctx context.Context) (model.Task, error) {
		return g.api.UpdateTask(ctx, in)
	})
}

// DeleteTask deletes a task
func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	if err := model.RequireID("id", id); err != nil {
		return rejected(OpDeleteTask, err)
	}
	return callErr(ctx, g, OpDeleteTask, func(ctx context.Context) error {
		return g.api.DeleteTask(ctx, id)
	})
}

// MarkTaskComplete sets or clears the completion flag
func (g *Gateway) MarkTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	if err := model.RequireID("id", id); err != nil {
		return model.Task{}, rejected(OpMarkTaskComplete, err)
	}
	return call(ctx, g, OpMarkTaskComplete, func(ctx context.Context) (model.Task, error) {
		return g.api.MarkTaskComplete(ctx, id, completed)
	})
}

// GetTodayTasks lists tasks due today
func (g *Gateway) GetTodayTasks(ctx context.Context) ([]model.Task, error) {
	return call(ctx, g, OpGetTodayTasks, g.api.GetTodayTasks)
}

// GetUpcomingTasks lists incomplete tasks due in the upcoming window
func (g *Gateway) GetUpcomingTasks(ctx context.Context) ([]model.Task, error) {
	return call(ctx, g, OpGetUpcomingTasks, g.api.GetUpcomingTasks)
}

// GetTaskStats returns the backend's TaskStats snapshot
func (g *Gateway) GetTaskStats(ctx context.Context) (model.TaskStats, error) {
	return call(ctx, g, OpGetTaskStats, g.api.GetTaskStats)
}
