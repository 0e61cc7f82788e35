package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/phrazzld/taskboard/internal/web"
)

// Thread views.
const (
	ThreadListView = "thread/threadList"
	ThreadFormView = "thread/threadForm"
)

// ThreadHandler serves the /thread pages task routes redirect to.
type ThreadHandler struct {
	threads   service.ThreadService
	responder *web.Responder
}

// NewThreadHandler creates a ThreadHandler.
func NewThreadHandler(threads service.ThreadService, responder *web.Responder) *ThreadHandler {
	return &ThreadHandler{threads: threads, responder: responder}
}

// Routes returns the /thread sub-router.
func (h *ThreadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler())
	r.Get("/update/{id}", h.ShowHandler())
	return r
}

// ListHandler handles GET /thread/.
func (h *ThreadHandler) ListHandler() http.HandlerFunc { return servePage(h.responder, h.List) }

// ShowHandler handles GET /thread/update/{id}.
func (h *ThreadHandler) ShowHandler() http.HandlerFunc { return servePage(h.responder, h.Show) }

// List renders the principal's threads.
func (h *ThreadHandler) List(r *http.Request, p shared.Principal) (web.Result, error) {
	threads, err := h.threads.ListThreads(r.Context(), p.UserID)
	if err != nil {
		return web.Result{}, err
	}
	return web.View(ThreadListView, web.Model{"threads": threads}), nil
}

// Show renders a thread owned by the principal with its tasks.
func (h *ThreadHandler) Show(r *http.Request, p shared.Principal) (web.Result, error) {
	id, err := getPathID(r, "id")
	if err != nil {
		return web.Result{}, err
	}

	thread, tasks, err := h.threads.GetThreadWithTasks(r.Context(), p.UserID, id)
	if err != nil {
		return web.Result{}, err
	}
	return web.View(ThreadFormView, web.Model{"thread": thread, "tasks": tasks}), nil
}
