package middleware

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/redact"
	"github.com/phrazzld/taskboard/internal/service/auth"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionMiddleware resolves the session cookie into a shared.Principal.
type SessionMiddleware struct {
	sessions   auth.SessionService
	cookieName string
}

// NewSessionMiddleware creates a SessionMiddleware reading cookieName.
func NewSessionMiddleware(sessions auth.SessionService, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookieName: cookieName}
}

// RequireSession redirects to the login page unless the request carries a
// valid session cookie. Valid sessions put the principal in the context.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			log.Debug("no session cookie, redirecting to login", "path", r.URL.Path)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		claims, err := m.sessions.Validate(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				log.Debug("session expired, redirecting to login")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				log.Info("invalid session cookie, redirecting to login")
			default:
				log.Error("failed to validate session", redact.ErrorAttr(err))
			}
			ClearSessionCookie(w, m.cookieName)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		principal := shared.Principal{UserID: claims.UserID, LoginName: claims.LoginName}
		ctx := shared.WithPrincipal(r.Context(), principal)
		ctx = logger.WithLogger(ctx, log.With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
