package store

import (
	"context"

	"github.com/phrazzld/taskboard/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The caller supplies an already hashed password.
	// Returns ErrLoginNameExists if the login name is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByLoginName retrieves a user by login name, including the password hash.
	// Returns ErrUserNotFound if the user does not exist.
	GetByLoginName(ctx context.Context, loginName string) (*domain.User, error)
}
