package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/model"
)

const taskColumns = `id, title, description, project_id, status, priority,
	due_date, completed, completed_at, created_at, updated_at`

// GetTasks returns all tasks, newest first
func (db *DB) GetTasks(ctx context.Context) ([]model.Task, error) {
	return db.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at DESC, rowid DESC
	`)
}

// GetTasksByProject returns tasks for a specific project, newest first
func (db *DB) GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return db.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, projectID)
}

// GetTodayTasks returns tasks due on the current calendar day
func (db *DB) GetTodayTasks(ctx context.Context) ([]model.Task, error) {
	from, to := agenda.TodayBounds(db.now())

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date >= ? AND due_date < ?`
	if !db.policy.CountCompletedToday {
		query += ` AND completed = 0`
	}
	query += ` ORDER BY due_date ASC`

	return db.queryTasks(ctx, query, formatTime(from), formatTime(to))
}

// GetUpcomingTasks returns incomplete tasks due inside the upcoming window
func (db *DB) GetUpcomingTasks(ctx context.Context) ([]model.Task, error) {
	from, to := db.policy.Upcoming.Bounds(db.now())

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE completed = 0 AND due_date >= ?`
	args := []any{formatTime(from)}
	if !to.IsZero() {
		query += ` AND due_date < ?`
		args = append(args, formatTime(to))
	}
	query += ` ORDER BY due_date ASC`

	return db.queryTasks(ctx, query, args...)
}

// GetTaskStats derives the counters from every stored task at one instant
func (db *DB) GetTaskStats(ctx context.Context) (model.TaskStats, error) {
	now := db.now()
	tasks, err := db.GetTasks(ctx)
	if err != nil {
		return model.TaskStats{}, err
	}
	return agenda.ComputeStats(tasks, now, db.policy), nil
}

// GetTask returns a single task by ID
func (db *DB) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, model.NotFound("task", id)
	}
	if err != nil {
		return model.Task{}, err
	}
	return *t, nil
}

// CreateTask creates a new, incomplete task
func (db *DB) CreateTask(ctx context.Context, in model.CreateTask) (model.Task, error) {
	if in.ProjectID != nil {
		if err := db.projectExists(ctx, db.DB, *in.ProjectID); err != nil {
			return model.Task{}, err
		}
	}

	now := db.now()
	t := model.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, project_id, status, priority,
			due_date, completed, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL, ?, ?)
	`, t.ID, t.Title, t.Description, t.ProjectID, t.Status, t.Priority,
		formatTimePtr(t.DueDate), formatTime(now), formatTime(now))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	db.log.Debug().Str("task_id", t.ID).Msg("task created")
	return t, nil
}

// UpdateTask applies the provided fields. Completing a task stamps
// completed_at once; un-completing clears it.
func (db *DB) UpdateTask(ctx context.Context, in model.UpdateTask) (model.Task, error) {
	var out model.Task
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, in.ID)
		t, err := scanTaskRow(row)
		if errors.Is(err, sql.ErrNoRows) {
			return model.NotFound("task", in.ID)
		}
		if err != nil {
			return err
		}

		now := db.now()
		if in.Title != nil {
			t.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			t.Description = in.Description
		}
		if in.ProjectID != nil {
			if err := db.projectExists(ctx, tx, *in.ProjectID); err != nil {
				return err
			}
			t.ProjectID = in.ProjectID
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
			if t.Completed && t.CompletedAt == nil {
				t.CompletedAt = &now
			} else if !t.Completed {
				t.CompletedAt = nil
			}
		}
		t.UpdatedAt = now

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET title = ?, description = ?, project_id = ?, status = ?, priority = ?,
				due_date = ?, completed = ?, completed_at = ?, updated_at = ?
			WHERE id = ?
		`, t.Title, t.Description, t.ProjectID, t.Status, t.Priority,
			formatTimePtr(t.DueDate), t.Completed, formatTimePtr(t.CompletedAt),
			formatTime(t.UpdatedAt), t.ID)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		out = *t
		return nil
	})
	return out, err
}

// MarkTaskComplete sets the completion flag of a task
func (db *DB) MarkTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	return db.UpdateTask(ctx, model.UpdateTask{ID: id, Completed: &completed})
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFound("task", id)
	}
	return nil
}

// Helper functions

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var description, projectID, dueDate, completedAt *string
	var createdAt, updatedAt string
	var completed int

	err := s.Scan(
		&t.ID, &t.Title, &description, &projectID, &t.Status, &t.Priority,
		&dueDate, &completed, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description
	t.ProjectID = projectID
	t.Completed = completed == 1

	if t.DueDate, err = parseTimePtr(dueDate); err != nil {
		return nil, err
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}
