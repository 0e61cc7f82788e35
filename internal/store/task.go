package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskboard/internal/domain"
)

// TaskQuery selects one page of a user's tasks.
type TaskQuery struct {
	// UserID restricts the result to tasks owned by this user. Required.
	UserID int64

	// Filters are ANDed together. Fields must be in domain.SearchableTaskFields.
	Filters []domain.SearchFilter

	// Page holds the 1-based page number, page size and ordering.
	Page domain.PageRequest
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create inserts a new task and assigns its ID.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the user or thread does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID, with its Thread association populated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update saves all mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Query returns the page of tasks selected by q together with the total
	// number of matching tasks. Items never exceed q.Page.Size.
	Query(ctx context.Context, q TaskQuery) (*domain.Page[*domain.Task], error)

	// ListByThread returns all tasks filed under threadID, newest first.
	ListByThread(ctx context.Context, threadID int64) ([]*domain.Task, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
