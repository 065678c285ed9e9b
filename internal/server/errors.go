package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/regform/internal/middleware"
	"github.com/nfrund/regform/web/src/templates/pages"
	hxhttp "maragu.dev/gomponents-htmx/http"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace and hides their text from the client. Browser page
// requests get the error page through e.Renderer.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			if wantsPage(c) && renderErrorPage(c, he.Code, msg) {
				return
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
			"error", err,
			"path", c.Path(),
			slog.String("stack_trace", string(debug.Stack())),
		)
		status := http.StatusInternalServerError
		if wantsPage(c) && renderErrorPage(c, status, "Something went wrong. Please try again.") {
			return
		}
		if err := c.String(status, http.StatusText(status)); err != nil {
			slog.Error("Failed to write error response", "error", err)
		}
	}
}

// wantsPage reports whether the request came from a browser navigating to a
// page rather than from htmx or an API client.
func wantsPage(c echo.Context) bool {
	r := c.Request()
	return r.Method == http.MethodGet &&
		!hxhttp.IsRequest(r.Header) &&
		strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

func renderErrorPage(c echo.Context, status int, msg string) bool {
	if err := c.Render(status, "error", pages.ErrorPage(status, msg)); err != nil {
		slog.Error("Failed to render error page", "error", err)
		return false
	}
	return true
}
