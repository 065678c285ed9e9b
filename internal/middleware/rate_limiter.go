package middleware

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitedMessage is written to clients that exceed the limit.
const RateLimitedMessage = "Too many requests. Please try again later."

// RateLimiter creates a rate limiter middleware allowing perSecond requests
// per second per client IP, with a burst of the same size rounded up. Each
// call has its own store, so routes limited separately do not share a budget.
// deny writes the rejection; nil answers 429 with RateLimitedMessage as text.
func RateLimiter(perSecond float64, deny echo.HandlerFunc) echo.MiddlewareFunc {
	if deny == nil {
		deny = func(c echo.Context) error {
			return c.String(http.StatusTooManyRequests, RateLimitedMessage)
		}
	}
	config := middleware.RateLimiterConfig{
		// NewRateLimiterMemoryStore is a simple in-memory store suitable for single-instance deployments.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: int(math.Ceil(perSecond)),
		}),

		// We identify clients by their real IP address.
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return deny(c)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
