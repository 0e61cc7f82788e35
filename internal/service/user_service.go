package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/service/auth"
	"github.com/phrazzld/taskboard/internal/store"
)

// UserService registers accounts. Users are never created by the web routes.
type UserService interface {
	// CreateUser hashes password and saves a new user.
	// Returns store.ErrLoginNameExists if loginName is taken.
	CreateUser(ctx context.Context, loginName, name, password string) (*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:  users,
		hasher: hasher,
		logger: logger.With("component", "user_service"),
		now:    time.Now,
	}
}

// CreateUser implements UserService.
func (s *userServiceImpl) CreateUser(ctx context.Context, loginName, name, password string) (*domain.User, error) {
	if loginName == "" {
		return nil, domain.ErrEmptyLoginName
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &domain.User{
		LoginName:    loginName,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrLoginNameExists) {
			s.logger.Debug("attempted to create user with existing login name", "login_name", loginName)
		} else {
			s.logger.Error("failed to save user", "error", err, "login_name", loginName)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "login_name", loginName)
	return user, nil
}
