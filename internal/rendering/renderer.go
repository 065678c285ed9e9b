package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer defines the contract for rendering any supported component (templ, gomponents).
// It uses interface{} for the component input to support heterogeneous types.
type Renderer interface {
	// RenderComponent renders a component to a slice of bytes, e.g. for htmx fragments.
	RenderComponent(ctx context.Context, component interface{}) ([]byte, error)

	// RenderPage writes a component as a complete HTML response.
	RenderPage(c echo.Context, status int, component interface{}) error
}

// UniversalRenderer is the concrete implementation that handles rendering for multiple component types.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode matches gomponents.Node, which only needs an io.Writer.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T. Component must be templ.Component or implement Render(io.Writer) error (like gomponents.Node)", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface for full HTTP responses.
// The component is rendered to a buffer first so a failure can still become
// an error response instead of a truncated page.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, component interface{}) error {
	body, err := tr.RenderComponent(c.Request().Context(), component)
	if err != nil {
		slog.Error("Failed to render page", "path", c.Path(), "error", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements the echo.Renderer interface for use with c.Render(status, name, component).
// The name is ignored; the component is passed as data.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return tr.render(c.Request().Context(), data, w)
}
