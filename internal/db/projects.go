package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dori/promanager/internal/model"
)

const projectColumns = `id, name, description, color, created_at, updated_at`

// GetProjects returns all projects, newest first
func (db *DB) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by ID
func (db *DB) GetProject(ctx context.Context, id string) (model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, model.NotFound("project", id)
	}
	if err != nil {
		return model.Project{}, err
	}
	return *p, nil
}

// CreateProject creates a new project
func (db *DB) CreateProject(ctx context.Context, in model.CreateProject) (model.Project, error) {
	now := db.now()
	p := model.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Color, formatTime(now), formatTime(now))
	if err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}

	db.log.Debug().Str("project_id", p.ID).Msg("project created")
	return p, nil
}

// UpdateProject applies the provided fields and bumps updated_at
func (db *DB) UpdateProject(ctx context.Context, in model.UpdateProject) (model.Project, error) {
	var out model.Project
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, in.ID)
		p, err := scanProject(row)
		if errors.Is(err, sql.ErrNoRows) {
			return model.NotFound("project", in.ID)
		}
		if err != nil {
			return err
		}

		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = in.Description
		}
		if in.Color != nil {
			p.Color = *in.Color
		}
		p.UpdatedAt = db.now()

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?
		`, p.Name, p.Description, p.Color, formatTime(p.UpdatedAt), p.ID)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		out = *p
		return nil
	})
	return out, err
}

// DeleteProject deletes a project together with its tasks
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return model.NotFound("project", id)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}
		n, _ := res.RowsAffected()
		db.log.Debug().Str("project_id", id).Int64("tasks", n).Msg("project deleted")
		return nil
	})
}

func (db *DB) projectExists(ctx context.Context, q querier, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFound("project", id)
	}
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	var description *string
	var createdAt, updatedAt string

	if err := s.Scan(&p.ID, &p.Name, &description, &p.Color, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Description = description

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
