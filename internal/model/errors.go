package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// FieldError describes a rejected input field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// RequireID rejects a blank identifier
func RequireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
