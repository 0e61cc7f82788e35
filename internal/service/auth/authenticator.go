package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/store"
)

// Session is the result of a successful login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Authenticator verifies login credentials and opens sessions.
type Authenticator struct {
	users    store.UserStore
	hasher   PasswordHasher
	sessions SessionService
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator. All dependencies are required.
func NewAuthenticator(
	users store.UserStore,
	hasher PasswordHasher,
	sessions SessionService,
	logger *slog.Logger,
) *Authenticator {
	if users == nil || hasher == nil || sessions == nil {
		// ALLOW-PANIC: constructor misuse
		panic("authenticator dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger.With("component", "authenticator"),
	}
}

// Login checks loginName and password and issues a session token.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, loginName, password string) (*Session, error) {
	user, err := a.users.GetByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.logger.Debug("login for unknown user", "login_name", loginName)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			a.logger.Info("login with wrong password", "user_id", user.ID)
		}
		return nil, err
	}

	token, expiresAt, err := a.sessions.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("user logged in", "user_id", user.ID)
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
