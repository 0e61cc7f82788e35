package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard/internal/api/middleware"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/phrazzld/taskboard/internal/web"
)

// Task views, actions and flash messages.
const (
	TaskListView = "task/taskList"
	TaskFormView = "task/taskForm"

	ActionCreate = "create"
	ActionUpdate = "update"

	FlashTaskCreated = "Task created"
	FlashTaskUpdated = "Task updated"
	FlashTaskDeleted = "Task deleted"

	threadListPath = "/thread/"
)

// TaskHandler serves the /task pages.
type TaskHandler struct {
	tasks      service.TaskService
	pagination config.PaginationConfig
	responder  *web.Responder
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(
	tasks service.TaskService,
	pagination config.PaginationConfig,
	responder *web.Responder,
) *TaskHandler {
	return &TaskHandler{tasks: tasks, pagination: pagination, responder: responder}
}

// Routes returns the /task sub-router. Every route runs behind a
// TaskPreparer so an id request parameter preloads its task.
func (h *TaskHandler) Routes() chi.Router {
	preparer := middleware.NewTaskPreparer(h.tasks, func(w http.ResponseWriter, r *http.Request, err error) {
		RenderError(h.responder, w, r, err)
	})

	r := chi.NewRouter()
	r.Use(preparer.Prepare)
	r.Get("/", h.ListHandler())
	r.Get("/create/{threadId}", h.CreateFormHandler())
	r.Post("/create", h.CreateHandler())
	r.Get("/update/{id}", h.UpdateFormHandler())
	r.Post("/update", h.UpdateHandler())
	r.Get("/delete/{id}", h.DeleteHandler())
	r.Post("/delete/{id}", h.DeleteHandler())
	r.Delete("/delete/{id}", h.DeleteHandler())
	return r
}

// ListHandler handles GET /task/.
func (h *TaskHandler) ListHandler() http.HandlerFunc { return servePage(h.responder, h.List) }

// CreateFormHandler handles GET /task/create/{threadId}.
func (h *TaskHandler) CreateFormHandler() http.HandlerFunc {
	return servePage(h.responder, h.CreateForm)
}

// CreateHandler handles POST /task/create.
func (h *TaskHandler) CreateHandler() http.HandlerFunc { return servePage(h.responder, h.Create) }

// UpdateFormHandler handles GET /task/update/{id}.
func (h *TaskHandler) UpdateFormHandler() http.HandlerFunc {
	return servePage(h.responder, h.UpdateForm)
}

// UpdateHandler handles POST /task/update.
func (h *TaskHandler) UpdateHandler() http.HandlerFunc { return servePage(h.responder, h.Update) }

// DeleteHandler handles GET, POST and DELETE /task/delete/{id}.
func (h *TaskHandler) DeleteHandler() http.HandlerFunc { return servePage(h.responder, h.Delete) }

// List renders one page of the principal's tasks. Malformed paging and sort
// parameters fall back to their defaults.
func (h *TaskHandler) List(r *http.Request, p shared.Principal) (web.Result, error) {
	q := r.URL.Query()

	sortType, err := domain.ParseSortType(q.Get("sortType"))
	if err != nil {
		logger.FromContext(r.Context()).Debug("unsupported sort type, using default",
			slog.String("sort_type", q.Get("sortType")))
	}

	filters, searchParams := searchFilters(r)
	page, err := h.tasks.ListTasks(r.Context(), p.UserID, service.ListParams{
		Page:     queryInt(q, "page", 1),
		PageSize: queryInt(q, "page.size", h.pagination.DefaultPageSize),
		Sort:     sortType,
		Filters:  filters,
	})
	if err != nil {
		return web.Result{}, err
	}

	return web.View(TaskListView, web.Model{
		"tasks":        page,
		"sortType":     page.Sort,
		"sortTypes":    domain.SortOptions(),
		"searchParams": searchParams,
		"titleSearch":  filterValue(filters, "title", domain.OpLIKE),
	}), nil
}

// filterValue returns the value of the filter on field with op, or "".
func filterValue(filters []domain.SearchFilter, field string, op domain.SearchOperator) string {
	for _, f := range filters {
		if f.Field == field && f.Operator == op {
			return f.Value
		}
	}
	return ""
}

// CreateForm renders a blank task form for the thread in the path.
func (h *TaskHandler) CreateForm(r *http.Request, p shared.Principal) (web.Result, error) {
	threadID, err := getPathID(r, "threadId")
	if err != nil {
		return web.Result{}, err
	}

	task, err := h.tasks.NewTask(r.Context(), p.UserID, threadID)
	if err != nil {
		return web.Result{}, err
	}

	return taskForm(task, ActionCreate, nil), nil
}

// Create saves a new task for the principal under the submitted thread_id.
func (h *TaskHandler) Create(r *http.Request, p shared.Principal) (web.Result, error) {
	form, err := bindTaskForm(r)
	if err != nil {
		return web.Result{}, fmt.Errorf("%w: unreadable form", domain.ErrValidation)
	}

	task := form.newTask()
	if err := shared.ValidateRequest(form); err != nil {
		return invalidTaskForm(task, ActionCreate, err), nil
	}

	if err := h.tasks.CreateTask(r.Context(), p.UserID, form.ThreadID, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return invalidTaskForm(task, ActionCreate, err), nil
		}
		return web.Result{}, err
	}

	return web.Redirect(threadListPath, FlashTaskCreated), nil
}

// UpdateForm renders the form for an existing task owned by the principal.
func (h *TaskHandler) UpdateForm(r *http.Request, p shared.Principal) (web.Result, error) {
	id, err := getPathID(r, "id")
	if err != nil {
		return web.Result{}, err
	}

	task, err := h.tasks.GetOwnedTask(r.Context(), p.UserID, id)
	if err != nil {
		return web.Result{}, err
	}

	return taskForm(task, ActionUpdate, nil), nil
}

// Update binds the submitted fields onto the task prepared from the id
// parameter and saves it.
func (h *TaskHandler) Update(r *http.Request, p shared.Principal) (web.Result, error) {
	prepared, ok := middleware.TaskFromContext(r.Context())
	if !ok {
		return web.Result{}, fmt.Errorf("%w: id is required", domain.ErrInvalidID)
	}

	form, err := bindTaskForm(r)
	if err != nil {
		return web.Result{}, fmt.Errorf("%w: unreadable form", domain.ErrValidation)
	}

	task := *prepared
	form.applyTo(&task)

	if err := shared.ValidateRequest(form); err != nil {
		return invalidTaskForm(&task, ActionUpdate, err), nil
	}

	if err := h.tasks.UpdateTask(r.Context(), p.UserID, &task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return invalidTaskForm(&task, ActionUpdate, err), nil
		}
		return web.Result{}, err
	}

	return web.Redirect(fmt.Sprintf("/thread/update/%d", task.ThreadID), FlashTaskUpdated), nil
}

// Delete removes a task owned by the principal.
func (h *TaskHandler) Delete(r *http.Request, p shared.Principal) (web.Result, error) {
	id, err := getPathID(r, "id")
	if err != nil {
		return web.Result{}, err
	}

	if r.Method == http.MethodGet {
		logger.FromContext(r.Context()).Warn("task deleted through GET request",
			slog.Int64("task_id", id),
			slog.String("referer", r.Referer()))
	}

	if err := h.tasks.DeleteTask(r.Context(), p.UserID, id); err != nil {
		return web.Result{}, err
	}

	return web.Redirect(threadListPath, FlashTaskDeleted), nil
}

func taskForm(task *domain.Task, action string, errs []string) web.Result {
	model := web.Model{taskModelKey: task, "action": action}
	if len(errs) > 0 {
		model["errors"] = errs
	}
	return web.View(TaskFormView, model)
}

func invalidTaskForm(task *domain.Task, action string, err error) web.Result {
	return taskForm(task, action, ValidationMessages(err)).WithStatus(http.StatusBadRequest)
}
