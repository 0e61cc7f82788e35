package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/taskboard/internal/platform/logger"
)

// ErrUnknownView is returned when a handler selects a view that does not exist.
var ErrUnknownView = errors.New("unknown view")

// Views lists every logical view name the application renders.
var Views = []string{
	"task/taskList",
	"task/taskForm",
	"thread/threadList",
	"thread/threadForm",
	"account/login",
	"error",
}

//go:embed templates
var templateFS embed.FS

// Renderer renders a logical view with its model.
type Renderer interface {
	Render(w io.Writer, view string, model Model) error
}

// TemplateRenderer renders views from the embedded html/template set.
// Each view is parsed together with the shared layout once, at construction.
type TemplateRenderer struct {
	views map[string]*template.Template
}

var _ Renderer = (*TemplateRenderer)(nil)

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"pageLink": func(page, size int, sort any, search string) template.URL {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("page.size", strconv.Itoa(size))
		q.Set("sortType", fmt.Sprint(sort))
		link := "/task/?" + q.Encode()
		if search != "" {
			link += "&" + search
		}
		// #nosec G203 -- built from url.Values encoding only
		return template.URL(link)
	},
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	return newTemplateRenderer(templateFS)
}

func newTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	views := make(map[string]*template.Template, len(Views))
	for _, name := range Views {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		views[name] = tmpl
	}
	return &TemplateRenderer{views: views}, nil
}

// Render implements Renderer.
func (t *TemplateRenderer) Render(w io.Writer, view string, model Model) error {
	tmpl, ok := t.views[view]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	return tmpl.ExecuteTemplate(w, "layout", model)
}

// Responder writes Results, choosing HTML or JSON from the Accept header.
type Responder struct {
	renderer     Renderer
	secureCookie bool
}

// NewResponder creates a Responder. secureCookie marks flash cookies Secure.
func NewResponder(renderer Renderer, secureCookie bool) *Responder {
	return &Responder{renderer: renderer, secureCookie: secureCookie}
}

// WantsJSON reports whether the client prefers a JSON rendition of the model.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Write sends res to the client.
func (rs *Responder) Write(w http.ResponseWriter, r *http.Request, res Result) {
	if res.IsRedirect() {
		SetFlash(w, res.Flash, rs.secureCookie)
		http.Redirect(w, r, res.Location, http.StatusFound)
		return
	}

	model := res.Model
	if model == nil {
		model = Model{}
	}
	if msg := FlashFromContext(r.Context()); msg != "" {
		if _, exists := model[FlashModelKey]; !exists {
			model[FlashModelKey] = msg
		}
	}

	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}

	log := logger.FromContext(r.Context())

	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		payload := struct {
			View  string `json:"view"`
			Model Model  `json:"model"`
		}{View: res.View, Model: model}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
		return
	}

	var buf bytes.Buffer
	if err := rs.renderer.Render(&buf, res.View, model); err != nil {
		log.Error("failed to render view",
			slog.String("view", res.View),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write response body", slog.String("error", err.Error()))
	}
}
