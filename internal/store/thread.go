package store

import (
	"context"

	"github.com/phrazzld/taskboard/internal/domain"
)

// ThreadStore defines the interface for thread data persistence.
type ThreadStore interface {
	// Create inserts a new thread and assigns its ID.
	Create(ctx context.Context, thread *domain.Thread) error

	// GetByID retrieves a thread by its ID.
	// Returns ErrThreadNotFound if the thread does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Thread, error)

	// ListByUser returns the threads owned by userID ordered by title.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Thread, error)
}
