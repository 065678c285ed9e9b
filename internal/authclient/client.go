// Package authclient posts form credentials to the remote authentication
// endpoint.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/domain/auth_errors"
)

// DefaultEndpoint is the login endpoint the form posts to unless configured.
const DefaultEndpoint = "http://localhost:8080/api/auth/login"

// maxErrorBody caps how much of a rejection body is kept as the error text.
const maxErrorBody = 64 << 10

// TruncatedMarker is appended to a rejection body cut at maxErrorBody.
const TruncatedMarker = " [truncated]"

// Client implements domain.AuthClient over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	jar        http.CookieJar
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient sets the *http.Client requests are based on. The client is
// copied, so later options never modify the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTimeout bounds each request. Zero leaves the base client's timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithCookieJar makes the client keep cookies between calls. Only use it
// where the client acts for a single user, such as the CLI; the server
// relays each browser's cookies through the request context instead.
func WithCookieJar(jar http.CookieJar) Option {
	return func(o *clientOptions) { o.jar = jar }
}

// New creates a client for endpoint, which must be an absolute http(s) URL.
// Options may be given in any order.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse auth endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("auth endpoint %q: scheme must be http or https", endpoint)
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	hc := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		hc = &copied
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}
	if o.jar != nil {
		hc.Jar = o.jar
	}

	return &Client{endpoint: u.String(), httpClient: hc}, nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Login posts state as JSON. Any 2xx status is success and its body is
// ignored. Other statuses return *auth_errors.RejectedError carrying the
// body text, cut at 64 KiB and marked with TruncatedMarker. Transport
// failures return *auth_errors.NetworkError. No retry is attempted.
func (c *Client) Login(ctx context.Context, state domain.FormState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	relay := relayFromContext(ctx)
	if relay != nil {
		for _, ck := range relay.Outgoing() {
			req.AddCookie(ck)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &auth_errors.NetworkError{Err: transportCause(err)}
	}
	defer resp.Body.Close()

	if relay != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			relay.Incoming(cookies)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		if err != nil {
			return &auth_errors.NetworkError{Err: transportCause(err)}
		}
		body := string(text)
		if len(text) > maxErrorBody {
			body = string(text[:maxErrorBody]) + TruncatedMarker
		}
		return &auth_errors.RejectedError{Status: resp.StatusCode, Body: body}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// transportCause strips the "Post \"<url>\": " wrapper net/http adds so the
// user-facing message carries only the cause.
func transportCause(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}
