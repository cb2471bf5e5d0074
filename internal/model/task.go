package model

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns all statuses in display order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus converts a wire value into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable status name
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Next returns the following status, wrapping around
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns all priorities from lowest to highest
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts a wire value into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
	}
	return p, nil
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the human-readable priority name
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Task represents a todo item, optionally attached to a project
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InProject returns true if the task belongs to the given project
func (t *Task) InProject(projectID string) bool {
	return t.ProjectID != nil && *t.ProjectID == projectID
}

// TaskStats is a derived snapshot over a task collection. It is never stored.
type TaskStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	TodayTasks     int `json:"today_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
}

// CreateTask is the input for creating a task
type CreateTask struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate rejects blank titles and unknown enum values
func (in CreateTask) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "is required")
	}
	if !in.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown value %q", in.Status))
	}
	if !in.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("unknown value %q", in.Priority))
	}
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) == "" {
		return invalid("project_id", "must not be blank")
	}
	return nil
}

// UpdateTask changes the fields that are set; nil fields are left alone
type UpdateTask struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// Validate checks the id and any provided field
func (in UpdateTask) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return invalid("id", "is required")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return invalid("title", "must not be blank")
	}
	if in.Status != nil && !in.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown value %q", *in.Status))
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("unknown value %q", *in.Priority))
	}
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) == "" {
		return invalid("project_id", "must not be blank")
	}
	return nil
}

// IsEmpty returns true if the update would change nothing
func (in UpdateTask) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.ProjectID == nil &&
		in.Status == nil && in.Priority == nil && in.DueDate == nil && in.Completed == nil
}
