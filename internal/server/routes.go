package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/regform/internal/middleware"
	"github.com/nfrund/regform/web/src/templates/pages"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	h := s.registerHandler
	// Page renders mount forms and submissions reach the auth endpoint, so
	// both are limited, each with its own budget.
	pageLimiter := middleware.RateLimiter(s.Cfg.RateLimit, h.RateLimited)
	submitLimiter := middleware.RateLimiter(s.Cfg.RateLimit, h.RateLimited)

	s.E.GET(pages.SubmitPath, h.RegisterGet, pageLimiter)
	s.E.POST(pages.SubmitPath, h.RegisterPost, submitLimiter)
	s.E.POST(pages.FieldPath, h.RegisterField)
	s.E.POST(pages.UnmountPath, h.RegisterUnmount)

	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, pages.SubmitPath)
	})
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}
