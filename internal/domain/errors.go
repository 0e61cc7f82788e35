package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors below wrap it so callers can test with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")
)

// Entity validation errors.
var (
	ErrEmptyTaskTitle       = newValidationError("task title cannot be empty")
	ErrTaskTitleTooLong     = newValidationError("task title is too long")
	ErrTaskDescTooLong      = newValidationError("task description is too long")
	ErrInvalidTaskStatus    = newValidationError("invalid task status")
	ErrEmptyTaskUserID      = newValidationError("task user ID cannot be empty")
	ErrEmptyTaskThreadID    = newValidationError("task thread ID cannot be empty")
	ErrEmptyThreadTitle     = newValidationError("thread title cannot be empty")
	ErrEmptyThreadUserID    = newValidationError("thread user ID cannot be empty")
	ErrEmptyLoginName       = newValidationError("login name cannot be empty")
	ErrEmptyPasswordHash    = newValidationError("password hash cannot be empty")
	ErrUnsupportedSortType  = newValidationError("unsupported sort type")
	ErrMalformedSearchParam = newValidationError("malformed search parameter")
)

// validationError keeps a specific message while matching ErrValidation.
type validationError struct {
	parent error
	msg    string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return e.parent }

func newValidationError(msg string) error {
	return &validationError{parent: ErrValidation, msg: msg}
}
