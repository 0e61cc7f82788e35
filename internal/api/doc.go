// Package api handles incoming HTTP requests for the task pages. Handlers
// bind request parameters, call the services, and select a logical view or
// a redirect with a flash message. Rendering is left to the web package.
package api
