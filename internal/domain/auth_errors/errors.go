package auth_errors

import (
	"fmt"
	"net/http"
)

// RejectedError is returned when the auth endpoint answered with a
// non-success status. Body is the response text, kept verbatim because it is
// shown to the user as-is.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("auth endpoint rejected request: %d %s", e.Status, http.StatusText(e.Status))
}

// NetworkError is returned when no response was received at all
// (DNS failure, refused connection, aborted request).
type NetworkError struct {
	Err error
}

// Error returns the underlying error text only. The form prefixes it when
// building the message shown to the user.
func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }
