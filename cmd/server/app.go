package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard/internal/api"
	"github.com/phrazzld/taskboard/internal/api/middleware"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/platform/postgres"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/phrazzld/taskboard/internal/service/auth"
	"github.com/phrazzld/taskboard/internal/store"
	"github.com/phrazzld/taskboard/internal/web"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore   store.UserStore
	threadStore store.ThreadStore
	taskStore   store.TaskStore

	hasher        auth.PasswordHasher
	sessions      auth.SessionService
	authenticator *auth.Authenticator
	userService   service.UserService
	threadService service.ThreadService
	taskService   service.TaskService

	responder *web.Responder
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.threadStore = postgres.NewPostgresThreadStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	var err error
	app.sessions, err = auth.NewSessionService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session service: %w", err)
	}
	logger.Info("session service initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.authenticator = auth.NewAuthenticator(app.userStore, app.hasher, app.sessions, logger)
	app.userService = service.NewUserService(app.userStore, app.hasher, logger)

	app.threadService, err = service.NewThreadService(app.threadStore, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.threadStore, db, cfg.Pagination, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	renderer, err := web.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	app.responder = web.NewResponder(renderer, cfg.Auth.SecureCookie)

	return app, nil
}

func (app *application) taskHandler() *api.TaskHandler {
	return api.NewTaskHandler(app.taskService, app.config.Pagination, app.responder)
}

func (app *application) threadHandler() *api.ThreadHandler {
	return api.NewThreadHandler(app.threadService, app.responder)
}

func (app *application) authHandler() *api.AuthHandler {
	return api.NewAuthHandler(app.authenticator, app.config.Auth, app.responder)
}

func (app *application) sessionMiddleware() *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(app.sessions, app.config.Auth.CookieName)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
