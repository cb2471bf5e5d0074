// Package rpc carries the gateway operations over JSON/HTTP so the UI can
// talk to a backend running in another process.
package rpc

import (
	"errors"
	"net/http"

	"github.com/dori/promanager/internal/model"
)

// Error codes carried in failed responses
const (
	CodeInvalidInput     = "invalid_input"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal"
	CodeUnknownOperation = "unknown_operation"
	CodeMethodNotAllowed = "method_not_allowed"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error is a failure reported by the remote backend
type Error struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Message
}

// Unwrap maps the wire code back onto the model sentinels
func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeInvalidInput:
		return model.ErrInvalidInput
	case CodeNotFound:
		return model.ErrNotFound
	}
	return nil
}

// classify picks the wire code and HTTP status for err
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return CodeInvalidInput, http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return CodeNotFound, http.StatusNotFound
	default:
		return CodeInternal, http.StatusInternalServerError
	}
}
