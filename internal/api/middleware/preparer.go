package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
)

// TaskIDParam is the request parameter that triggers task preparation.
const TaskIDParam = "id"

type preparedTaskKey struct{}

// TaskLoader loads a task by ID.
type TaskLoader interface {
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
}

// ErrorHandler writes an error response for err.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// TaskPreparer preloads the task named by the "id" request parameter
// (query string or form body) before the route handler runs.
type TaskPreparer struct {
	tasks   TaskLoader
	onError ErrorHandler
}

// NewTaskPreparer creates a TaskPreparer. Load failures are passed to onError.
func NewTaskPreparer(tasks TaskLoader, onError ErrorHandler) *TaskPreparer {
	return &TaskPreparer{tasks: tasks, onError: onError}
}

// Prepare loads the task when an id parameter is present and stores it for
// TaskFromContext. Requests without one pass through untouched.
func (p *TaskPreparer) Prepare(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.FormValue(TaskIDParam)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			p.onError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw))
			return
		}

		task, err := p.tasks.GetTask(r.Context(), id)
		if err != nil {
			p.onError(w, r, err)
			return
		}

		logger.FromContext(r.Context()).Debug("prepared task", "task_id", id)
		next.ServeHTTP(w, r.WithContext(WithPreparedTask(r.Context(), task)))
	})
}

// WithPreparedTask returns a copy of ctx carrying task.
func WithPreparedTask(ctx context.Context, task *domain.Task) context.Context {
	return context.WithValue(ctx, preparedTaskKey{}, task)
}

// TaskFromContext returns the task loaded by TaskPreparer, if any.
func TaskFromContext(ctx context.Context) (*domain.Task, bool) {
	task, ok := ctx.Value(preparedTaskKey{}).(*domain.Task)
	return task, ok && task != nil
}
