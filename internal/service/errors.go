package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/store"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a task is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrThreadNotOwned indicates the referenced thread belongs to another user.
	// It wraps ErrNotOwned so a single 403 mapping covers both.
	ErrThreadNotOwned = fmt.Errorf("%w: thread", ErrNotOwned)
)

// TaskServiceError wraps unexpected failures from the task and thread services.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError wraps err with operation context.
// Expected conditions (not found, not owned, validation) are returned as is.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if isExpected(err) {
		return err
	}
	return &TaskServiceError{Operation: operation, Message: message, Err: err}
}

func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrValidation)
}
