package handlers

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/regform/internal/authclient"
	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/middleware"
	"github.com/nfrund/regform/internal/navigation"
	"github.com/nfrund/regform/internal/regform"
	"github.com/nfrund/regform/internal/rendering"
	"github.com/nfrund/regform/internal/view/dto/auth"
	"github.com/nfrund/regform/web/src/templates/layouts"
	"github.com/nfrund/regform/web/src/templates/pages"
	hxhttp "maragu.dev/gomponents-htmx/http"
)

// SessionName is the cookie session that records which forms a browser owns.
const SessionName = "regform-session"

const (
	sessionFormsKey = "forms"
	// Enough for a handful of open tabs; older ids simply stop being accepted.
	maxSessionForms = 8
)

// SubmissionObserver receives submission and field change events, typically
// for metrics.
type SubmissionObserver interface {
	ObserveSubmission(outcome string, d time.Duration)
	ObserveFieldChange()
}

// RegisterHandler serves the registration form and relays its events to the
// mounted form instances.
type RegisterHandler struct {
	forms       *regform.Store
	renderer    rendering.Renderer
	observer    SubmissionObserver
	submitLabel string
	loginRoute  string
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(forms *regform.Store, renderer rendering.Renderer, observer SubmissionObserver, submitLabel, loginRoute string) *RegisterHandler {
	return &RegisterHandler{
		forms:       forms,
		renderer:    renderer,
		observer:    observer,
		submitLabel: submitLabel,
		loginRoute:  loginRoute,
	}
}

// RegisterGet renders the registration page (GET /register). Every render
// mounts a fresh form, so nothing typed before a reload survives it.
func (h *RegisterHandler) RegisterGet(c echo.Context) error {
	form := h.forms.Mount()
	h.rememberForm(c, form.ID())

	middleware.FromContext(c.Request().Context()).Debug("Mounted registration form", "form_id", form.ID())
	return h.renderPage(c, form)
}

// RegisterField applies one input edit (POST /register/field).
func (h *RegisterHandler) RegisterField(c echo.Context) error {
	var req FieldChangeRequest
	if err := c.Bind(&req); err != nil {
		return h.reject(c, http.StatusBadRequest, msgInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return h.reject(c, http.StatusBadRequest, msgInvalidRequest)
	}

	form, err := h.ownedForm(c, req.FormID)
	if err != nil {
		return h.reject(c, http.StatusGone, msgFormExpired)
	}
	if err := form.SetField(domain.Field(req.Field), c.FormValue(req.Field)); err != nil {
		if errors.Is(err, domain.ErrUnmounted) {
			return h.reject(c, http.StatusGone, msgFormExpired)
		}
		return err
	}

	h.observer.ObserveFieldChange()
	return c.NoContent(http.StatusNoContent)
}

// RegisterPost submits the form (POST /register). Posted field values are
// applied first, so a browser without scripts submits the same state an
// htmx-driven page has been syncing. On success the response navigates to
// the dashboard; on failure the error slot is re-rendered.
func (h *RegisterHandler) RegisterPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return h.reject(c, http.StatusBadRequest, msgInvalidRequest)
	}
	params, err := c.FormParams()
	if err != nil {
		return h.reject(c, http.StatusBadRequest, msgInvalidRequest)
	}

	form, err := h.ownedForm(c, req.FormID)
	if err != nil {
		form = h.forms.Mount()
		h.rememberForm(c, form.ID())
		logger.Debug("Mounted replacement form for submission", "stale_form_id", req.FormID, "form_id", form.ID())
	}
	for _, f := range domain.Fields {
		if _, ok := params[string(f)]; !ok {
			continue
		}
		if err := form.SetField(f, params.Get(string(f))); err != nil {
			return h.reject(c, http.StatusGone, msgFormExpired)
		}
	}

	nav := navigation.ForRequest(c)
	start := time.Now()
	outcome, err := form.Submit(authclient.WithCookieRelay(ctx, &cookieRelay{c: c}), nav)
	switch {
	case errors.Is(err, domain.ErrSubmitPending):
		return h.reject(c, http.StatusConflict, msgSubmitInProgress)
	case errors.Is(err, domain.ErrUnmounted):
		return h.reject(c, http.StatusGone, msgFormExpired)
	case err != nil:
		logger.Error("Registration navigation failed", "form_id", form.ID(), "error", err)
		return err
	}
	h.observer.ObserveSubmission(string(outcome), time.Since(start))

	if _, ok := nav.Target(); ok {
		logger.Info("Registration accepted", "form_id", form.ID())
		// The page is about to be replaced.
		h.forms.Unmount(form.ID())
		h.forgetForm(c, form.ID())
		return nav.Commit()
	}

	logger.Info("Registration failed", "form_id", form.ID(), "outcome", outcome)
	if hxhttp.IsRequest(c.Request().Header) {
		return h.renderer.RenderPage(c, http.StatusOK, pages.ErrorSlot(form.ErrorMessage()))
	}
	return h.renderPage(c, form)
}

// RegisterUnmount tears a form down when its page goes away
// (POST /register/unmount). Unknown ids are ignored.
func (h *RegisterHandler) RegisterUnmount(c echo.Context) error {
	var req UnmountRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, msgInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return c.String(http.StatusBadRequest, msgInvalidRequest)
	}

	if _, err := h.ownedForm(c, req.FormID); err == nil {
		h.forms.Unmount(req.FormID)
		h.forgetForm(c, req.FormID)
	}
	return c.NoContent(http.StatusNoContent)
}

// RateLimited answers a request the rate limiter turned away.
func (h *RegisterHandler) RateLimited(c echo.Context) error {
	return h.reject(c, http.StatusTooManyRequests, middleware.RateLimitedMessage)
}

// reject writes msg with status. htmx requests get the error slot, retargeted
// so it replaces the one on the page whatever element made the request.
func (h *RegisterHandler) reject(c echo.Context, status int, msg string) error {
	if !hxhttp.IsRequest(c.Request().Header) {
		return c.String(status, msg)
	}
	hxhttp.SetRetarget(c.Response().Header(), "#"+pages.ErrorSlotID)
	hxhttp.SetReswap(c.Response().Header(), "outerHTML")
	return h.renderer.RenderPage(c, status, pages.ErrorSlot(msg))
}

func (h *RegisterHandler) renderPage(c echo.Context, form *regform.Form) error {
	data := auth.NewRegisterData(form.ID(), form.State(), form.ErrorMessage(), h.submitLabel, h.loginRoute)
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Register", pages.Register(data)))
}

// ownedForm returns the form only if this browser's session mounted it.
func (h *RegisterHandler) ownedForm(c echo.Context, id string) (*regform.Form, error) {
	if id == "" || !slices.Contains(sessionForms(c), id) {
		return nil, domain.ErrFormNotFound
	}
	return h.forms.Get(id)
}

func sessionForms(c echo.Context) []string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil
	}
	ids, _ := sess.Values[sessionFormsKey].([]string)
	return ids
}

func (h *RegisterHandler) rememberForm(c echo.Context, id string) {
	h.updateSessionForms(c, func(ids []string) []string {
		ids = append(ids, id)
		if len(ids) > maxSessionForms {
			ids = ids[len(ids)-maxSessionForms:]
		}
		return ids
	})
}

func (h *RegisterHandler) forgetForm(c echo.Context, id string) {
	h.updateSessionForms(c, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id })
	})
}

func (h *RegisterHandler) updateSessionForms(c echo.Context, update func([]string) []string) {
	logger := middleware.FromContext(c.Request().Context())
	sess, err := session.Get(SessionName, c)
	if err != nil {
		logger.Error("Failed to load session", "error", err)
		return
	}
	ids, _ := sess.Values[sessionFormsKey].([]string)
	sess.Values[sessionFormsKey] = update(slices.Clone(ids))
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logger.Error("Failed to save session", "error", err)
	}
}

// cookieRelay forwards the browser's cookies to the auth endpoint and the
// endpoint's cookies back to the browser. The session cookie stays local.
type cookieRelay struct {
	c echo.Context
}

func (r *cookieRelay) Outgoing() []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range r.c.Request().Cookies() {
		if ck.Name == SessionName {
			continue
		}
		out = append(out, ck)
	}
	return out
}

func (r *cookieRelay) Incoming(cookies []*http.Cookie) {
	for _, ck := range cookies {
		r.c.SetCookie(ck)
	}
}
