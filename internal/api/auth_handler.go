package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard/internal/api/middleware"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/redact"
	"github.com/phrazzld/taskboard/internal/service/auth"
	"github.com/phrazzld/taskboard/internal/web"
)

// LoginView is the logical view of the login page.
const LoginView = "account/login"

// homePath is where a successful login lands.
const homePath = "/task/"

// LoginService opens a session for valid credentials.
type LoginService interface {
	Login(ctx context.Context, loginName, password string) (*auth.Session, error)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	logins    LoginService
	cfg       config.AuthConfig
	responder *web.Responder
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(logins LoginService, cfg config.AuthConfig, responder *web.Responder) *AuthHandler {
	return &AuthHandler{logins: logins, cfg: cfg, responder: responder}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.responder.Write(w, r, web.View(LoginView, nil))
}

// Login handles POST /login. Valid credentials set the session cookie and
// redirect home; anything else re-renders the form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	form, err := bindLoginForm(r)
	if err != nil {
		h.loginFailed(w, r, form, []string{"Invalid request format"}, http.StatusBadRequest)
		return
	}

	if err := shared.ValidateRequest(form); err != nil {
		h.loginFailed(w, r, form, ValidationMessages(err), http.StatusBadRequest)
		return
	}

	session, err := h.logins.Login(r.Context(), form.LoginName, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("failed login attempt", slog.String("login_name", form.LoginName))
			h.loginFailed(w, r, form, []string{GetSafeErrorMessage(err)}, http.StatusUnauthorized)
			return
		}
		log.Error("failed to log in", redact.ErrorAttr(err))
		RenderError(h.responder, w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged in", slog.Int64("user_id", session.User.ID))
	h.responder.Write(w, r, web.Redirect(homePath, ""))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.cfg.CookieName)
	h.responder.Write(w, r, web.Redirect(middleware.LoginPath, "Logged out"))
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, form LoginForm, errs []string, status int) {
	h.responder.Write(w, r, web.View(LoginView, web.Model{
		"login_name": form.LoginName,
		"errors":     errs,
	}).WithStatus(status))
}
