// Package navigation turns a form's request to change route into something
// the client acts on.
package navigation

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	hxhttp "maragu.dev/gomponents-htmx/http"
)

// ErrAlreadyNavigated is returned when a single response is asked to
// navigate twice.
var ErrAlreadyNavigated = errors.New("navigation already requested for this response")

// Response is a per-request navigator. Navigate only records the target;
// Commit writes it: an HX-Redirect header for htmx requests, a 303 redirect
// for plain form posts.
type Response struct {
	c     echo.Context
	route string
}

// ForRequest creates a navigator bound to the current echo request.
func ForRequest(c echo.Context) *Response {
	return &Response{c: c}
}

// Navigate records route as the destination of this response.
func (r *Response) Navigate(_ context.Context, route string) error {
	if r.route != "" {
		return ErrAlreadyNavigated
	}
	r.route = route
	return nil
}

// Target returns the recorded route and whether one was recorded.
func (r *Response) Target() (string, bool) {
	return r.route, r.route != ""
}

// Commit writes the navigation to the response.
func (r *Response) Commit() error {
	if r.route == "" {
		return errors.New("navigation: nothing to commit")
	}
	if hxhttp.IsRequest(r.c.Request().Header) {
		hxhttp.SetRedirect(r.c.Response().Header(), r.route)
		return r.c.NoContent(http.StatusOK)
	}
	return r.c.Redirect(http.StatusSeeOther, r.route)
}

// Recorder collects every requested route. It is used where there is no
// browser to redirect, such as the CLI.
type Recorder struct {
	mu     sync.Mutex
	routes []string
}

// Navigate appends route to the recorded routes.
func (r *Recorder) Navigate(_ context.Context, route string) error {
	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
	return nil
}

// Routes returns the routes recorded so far.
func (r *Recorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}
