package model

import (
	"strings"
	"time"
)

// Project groups tasks under a name and a display color
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectWithCounts is a project together with its task counters
type ProjectWithCounts struct {
	Project
	TaskCount      int `json:"task_count"`
	CompletedCount int `json:"completed_task_count"`
}

// Progress returns the completed fraction in [0, 1]
func (p ProjectWithCounts) Progress() float64 {
	if p.TaskCount == 0 {
		return 0
	}
	return float64(p.CompletedCount) / float64(p.TaskCount)
}

// projectColors is the palette offered when creating a project
var projectColors = []string{
	"#3B82F6", // Blue
	"#EF4444", // Red
	"#10B981", // Green
	"#F59E0B", // Yellow
	"#8B5CF6", // Purple
	"#F97316", // Orange
	"#06B6D4", // Cyan
	"#EC4899", // Pink
	"#84CC16", // Lime
	"#6366F1", // Indigo
}

// ProjectColors returns a copy of the project color palette
func ProjectColors() []string {
	out := make([]string, len(projectColors))
	copy(out, projectColors)
	return out
}

// CreateProject is the input for creating a project
type CreateProject struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color"`
}

// Validate rejects blank names and colors
func (in CreateProject) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if strings.TrimSpace(in.Color) == "" {
		return invalid("color", "is required")
	}
	return nil
}

// UpdateProject changes the fields that are set
type UpdateProject struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Validate checks the id and any provided field
func (in UpdateProject) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return invalid("id", "is required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be blank")
	}
	if in.Color != nil && strings.TrimSpace(*in.Color) == "" {
		return invalid("color", "must not be blank")
	}
	return nil
}
