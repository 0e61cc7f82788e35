package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
)

// sessionTokenType is the "type" claim of every session token.
const sessionTokenType = "session"

// SessionService issues and validates signed session tokens.
type SessionService interface {
	// Issue creates a signed session token for user and returns it with its expiry.
	Issue(ctx context.Context, user *domain.User) (string, time.Time, error)

	// Validate checks the signature, expiry and type of tokenString.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken on failure.
	Validate(ctx context.Context, tokenString string) (*SessionClaims, error)
}

// SessionClaims is the validated content of a session token.
type SessionClaims struct {
	UserID    int64
	LoginName string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

type jwtSessionClaims struct {
	UserID    int64  `json:"uid"`
	LoginName string `json:"login"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// hmacSessionService implements SessionService with HS256 signatures.
type hmacSessionService struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

var _ SessionService = (*hmacSessionService)(nil)

// NewSessionService creates a SessionService from the auth configuration.
func NewSessionService(cfg config.AuthConfig) (SessionService, error) {
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}
	if cfg.SessionLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive")
	}

	return &hmacSessionService{
		signingKey: []byte(cfg.SessionSecret),
		lifetime:   cfg.SessionLifetime(),
		timeFunc:   time.Now,
		clockSkew:  time.Minute,
	}, nil
}

// Issue implements SessionService.
func (s *hmacSessionService) Issue(ctx context.Context, user *domain.User) (string, time.Time, error) {
	now := s.timeFunc()
	expiresAt := now.Add(s.lifetime)

	claims := jwtSessionClaims{
		UserID:    user.ID,
		LoginName: user.LoginName,
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign session token",
			"error", err,
			"user_id", user.ID)
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate implements SessionService.
func (s *hmacSessionService) Validate(ctx context.Context, tokenString string) (*SessionClaims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtSessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("session token expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("session token rejected", "error", err, "error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtSessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != sessionTokenType {
		log.Debug("session token has wrong type", "actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	result := &SessionClaims{
		UserID:    claims.UserID,
		LoginName: claims.LoginName,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
