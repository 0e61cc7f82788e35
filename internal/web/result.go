package web

import "net/http"

// Model is the data a view is rendered with.
type Model map[string]any

// Result is the outcome of a page handler: either a view to render or a
// redirect to follow. The zero value is not meaningful; use View or Redirect.
type Result struct {
	View     string
	Model    Model
	Status   int
	Location string
	Flash    string
}

// View selects the logical view name rendered with model and status 200.
func View(name string, model Model) Result {
	if model == nil {
		model = Model{}
	}
	return Result{View: name, Model: model, Status: http.StatusOK}
}

// Redirect sends the client to location with a 302, leaving flash for the next page.
func Redirect(location, flash string) Result {
	return Result{Location: location, Flash: flash, Status: http.StatusFound}
}

// WithStatus overrides the response status of a view.
func (r Result) WithStatus(status int) Result {
	r.Status = status
	return r
}

// IsRedirect reports whether r is a redirect.
func (r Result) IsRedirect() bool {
	return r.Location != ""
}
