package authclient

import (
	"context"
	"net/http"
)

// CookieRelay carries one browser's cookies to the auth endpoint and hands
// the cookies it sets back to that browser.
type CookieRelay interface {
	// Outgoing returns the cookies to attach to the login request.
	Outgoing() []*http.Cookie
	// Incoming receives the cookies set by the login response.
	Incoming(cookies []*http.Cookie)
}

type relayKey struct{}

// WithCookieRelay attaches relay to ctx for the next Login call.
func WithCookieRelay(ctx context.Context, relay CookieRelay) context.Context {
	return context.WithValue(ctx, relayKey{}, relay)
}

func relayFromContext(ctx context.Context) CookieRelay {
	relay, _ := ctx.Value(relayKey{}).(CookieRelay)
	return relay
}
