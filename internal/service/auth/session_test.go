package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret-that-is-32-chars-long"

func newTestSessionService(t *testing.T, now func() time.Time) *hmacSessionService {
	t.Helper()
	svc, err := NewSessionService(config.AuthConfig{
		SessionSecret:          testSecret,
		SessionLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	s := svc.(*hmacSessionService)
	s.timeFunc = now
	return s
}

func TestNewSessionService_RejectsBadConfig(t *testing.T) {
	_, err := NewSessionService(config.AuthConfig{SessionSecret: "short", SessionLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewSessionService(config.AuthConfig{SessionSecret: testSecret})
	assert.Error(t, err)
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestSessionService(t, func() time.Time { return issuedAt })
	user := &domain.User{ID: 42, LoginName: "alice"}

	token, expiresAt, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	claims, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.LoginName)
	assert.Equal(t, "session", claims.TokenType)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, _, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	otherClaims, err := svc.Validate(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestSessionService_ValidateFailures(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestSessionService(t, func() time.Time { return issuedAt })
	token, _, err := issuer.Issue(context.Background(), &domain.User{ID: 1, LoginName: "bob"})
	require.NoError(t, err)

	wrongType := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtSessionClaims{
		UserID:    1,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})
	wrongTypeToken, err := wrongType.SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtSessionClaims{UserID: 1, TokenType: "session"})
	otherKeyToken, err := otherKey.SignedString([]byte("another-secret-that-is-also-32-chars-long"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		token   string
		wantErr error
	}{
		{name: "expired", now: issuedAt.Add(2 * time.Hour), token: token, wantErr: ErrExpiredToken},
		{name: "within_leeway", now: issuedAt.Add(time.Hour + 30*time.Second), token: token},
		{name: "malformed", now: issuedAt, token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "empty", now: issuedAt, token: "", wantErr: ErrMissingToken},
		{name: "wrong_signature", now: issuedAt, token: otherKeyToken, wantErr: ErrInvalidToken},
		{name: "wrong_type", now: issuedAt, token: wrongTypeToken, wantErr: ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			svc := newTestSessionService(t, func() time.Time { return now })
			_, err := svc.Validate(context.Background(), tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
