package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/regform/internal/app"
	"github.com/nfrund/regform/internal/config"
	"github.com/nfrund/regform/internal/handlers"
	"github.com/nfrund/regform/internal/metrics"
	"github.com/nfrund/regform/internal/middleware"
	"github.com/nfrund/regform/internal/regform"
	"github.com/nfrund/regform/internal/rendering"
	"github.com/nfrund/regform/web"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E               *echo.Echo
	Cfg             *config.Config
	forms           *regform.Store
	metrics         *metrics.Metrics
	registerHandler *handlers.RegisterHandler
}

// New creates a new Server from cfg, resolving its services through the
// application injector.
func New(cfg *config.Config) (*Server, error) {
	injector := app.NewInjector(cfg)

	registerHandler, err := do.Invoke[*handlers.RegisterHandler](injector)
	if err != nil {
		return nil, fmt.Errorf("wire register handler: %w", err)
	}
	forms := do.MustInvoke[*regform.Store](injector)
	m := do.MustInvoke[*metrics.Metrics](injector)

	warnOnLoginEndpoint(cfg.AuthEndpoint)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Renderer = do.MustInvoke[*rendering.UniversalRenderer](injector)
	setupErrorHandling(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	e.StaticFS("/static", static)

	return &Server{
		E:               e,
		Cfg:             cfg,
		forms:           forms,
		metrics:         m,
		registerHandler: registerHandler,
	}, nil
}

// Forms is a getter for the server's form store, useful for testing.
func (s *Server) Forms() *regform.Store {
	return s.forms
}

// warnOnLoginEndpoint flags the registration page posting to a login
// endpoint. The configured endpoint is used as-is.
func warnOnLoginEndpoint(endpoint string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return
	}
	if strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/login") {
		slog.Warn("Registration form submits to a login endpoint; set AUTH_ENDPOINT if a registration endpoint exists", "endpoint", endpoint)
	}
}
