package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard/internal/api/middleware"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/service/auth"
	"github.com/phrazzld/taskboard/internal/web"
)

const (
	// searchParamPrefix marks query parameters that filter task listings,
	// e.g. search_LIKE_title=milk.
	searchParamPrefix = "search_"
	taskModelKey      = "task"
)

// PageFunc handles a request for the signed-in principal and selects the
// view or redirect to send back.
type PageFunc func(r *http.Request, p shared.Principal) (web.Result, error)

// servePage adapts fn to an http.HandlerFunc. The principal put in the
// context by the session middleware is handed to fn explicitly; errors go
// through RenderError. A prepared task owned by the principal is added to
// the view model as "task" unless fn set one.
func servePage(rs *web.Responder, fn PageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			logger.FromContext(r.Context()).Warn("principal not found in request context")
			RenderError(rs, w, r, auth.ErrMissingToken)
			return
		}

		res, err := fn(r, p)
		if err != nil {
			RenderError(rs, w, r, err)
			return
		}
		withPreparedTask(r, p, res)
		rs.Write(w, r, res)
	}
}

func withPreparedTask(r *http.Request, p shared.Principal, res web.Result) {
	if res.IsRedirect() || res.Model == nil {
		return
	}
	if _, set := res.Model[taskModelKey]; set {
		return
	}
	if task, ok := middleware.TaskFromContext(r.Context()); ok && task.UserID == p.UserID {
		res.Model[taskModelKey] = task
	}
}

// queryInt returns the positive integer query parameter key, or def when it
// is missing, malformed or not positive.
func queryInt(q url.Values, key string, def int) int {
	raw := q.Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// getPathID extracts a positive int64 from the URL path parameter paramName.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// searchFilters collects the search_* query parameters of r. It returns the
// parsed filters and their canonical query encoding for paging links.
// Malformed parameters are logged and dropped.
func searchFilters(r *http.Request) ([]domain.SearchFilter, string) {
	raw := make(map[string]string)
	for key, values := range r.URL.Query() {
		name, ok := strings.CutPrefix(key, searchParamPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		raw[name] = values[0]
	}
	if len(raw) == 0 {
		return nil, ""
	}

	filters, errs := domain.ParseSearchFilters(raw)
	if len(errs) > 0 {
		log := logger.FromContext(r.Context())
		for _, err := range errs {
			log.Debug("dropping search parameter", slog.String("error", err.Error()))
		}
	}

	encoded := url.Values{}
	for _, f := range filters {
		encoded.Set(searchParamPrefix+string(f.Operator)+"_"+f.Field, f.Value)
	}
	return filters, encoded.Encode()
}
