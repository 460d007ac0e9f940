// Package apperror defines the error taxonomy shared by services and the
// HTTP layer. Persistence and upstream failures are wrapped into these
// kinds at the service boundary; the router maps them to response codes.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Handlers match on these with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("upstream failure")
)

// AppError pairs a taxonomy kind with a human-readable message.
type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// Conflict reports that the requested state already exists.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Validation reports malformed caller input.
func Validation(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
	}
}

// Upstream wraps a network or collaborator failure. The cause is carried
// for server-side logging; callers only see the message.
func Upstream(message string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUpstream, cause),
		Message: message,
	}
}

// Internal wraps an uncategorized persistence or I/O failure with context.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Err:     cause,
		Message: message,
	}
}
