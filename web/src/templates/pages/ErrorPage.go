package pages

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/nfrund/regform/web/src/templates/layouts"
)

// ErrorPage is the standalone page shown when a browser request fails
// outside the form, such as an unknown path or an internal error.
func ErrorPage(status int, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := http.StatusText(status)
		parts := []string{
			`<!doctype html><html lang="en"><head><meta charset="utf-8"><title>`,
			templ.EscapeString(layouts.CalculateTitle(title)),
			`</title><link rel="stylesheet" href="/static/login.css"></head><body><div class="login-container"><h2>`,
			templ.EscapeString(title),
			`</h2><p class="error">`,
			templ.EscapeString(msg),
			`</p><p><a href="`,
			templ.EscapeString(string(templ.URL(SubmitPath))),
			`">Back to registration</a></p></div></body></html>`,
		}
		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}
		return nil
	})
}
