// Package gateway is the typed front door to the backend. Every read and
// write the UI performs goes through one of the named operations below.
package gateway

import (
	"context"

	"github.com/dori/promanager/internal/model"
)

// Operation names, shared with the RPC transport
const (
	OpCreateProject     = "create_project"
	OpGetProjects       = "get_projects"
	OpUpdateProject     = "update_project"
	OpDeleteProject     = "delete_project"
	OpCreateTask        = "create_task"
	OpGetTasks          = "get_tasks"
	OpGetTasksByProject = "get_tasks_by_project"
	OpUpdateTask        = "update_task"
	OpDeleteTask        = "delete_task"
	OpGetTodayTasks     = "get_today_tasks"
	OpGetUpcomingTasks  = "get_upcoming_tasks"
	OpMarkTaskComplete  = "mark_task_complete"
	OpGetTaskStats      = "get_task_stats"
)

// Operations returns every operation name in a stable order
func Operations() []string {
	return []string{
		OpCreateProject, OpGetProjects, OpUpdateProject, OpDeleteProject,
		OpCreateTask, OpGetTasks, OpGetTasksByProject, OpUpdateTask, OpDeleteTask,
		OpGetTodayTasks, OpGetUpcomingTasks, OpMarkTaskComplete, OpGetTaskStats,
	}
}

// API is the set of backend operations. Both the local store and the RPC
// client implement it.
type API interface {
	// projects
	CreateProject(ctx context.Context, in model.CreateProject) (model.Project, error)
	GetProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, in model.UpdateProject) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// tasks
	CreateTask(ctx context.Context, in model.CreateTask) (model.Task, error)
	GetTasks(ctx context.Context) ([]model.Task, error)
	GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, in model.UpdateTask) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MarkTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error)

	// derived views
	GetTodayTasks(ctx context.Context) ([]model.Task, error)
	GetUpcomingTasks(ctx context.Context) ([]model.Task, error)
	GetTaskStats(ctx context.Context) (model.TaskStats, error)
}
