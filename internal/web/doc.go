// Package web turns a handler's decision into an HTTP response: a logical
// view rendered through html/template (or JSON when the client asks for it),
// or a redirect carrying a one-shot flash message.
package web
