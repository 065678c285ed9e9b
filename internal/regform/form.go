package regform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/domain/auth_errors"
)

// NetworkFailurePrefix starts the message shown when no response was received.
const NetworkFailurePrefix = "Login failed: "

// Outcome classifies a finished submission attempt.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeRejected       Outcome = "rejected"
	OutcomeNetworkFailure Outcome = "network_failure"
)

// Form is one mounted registration form. It owns the field values and the
// error slot; both are discarded when the form is unmounted.
type Form struct {
	id           string
	client       domain.AuthClient
	successRoute string
	now          func() time.Time

	mu         sync.Mutex
	state      domain.FormState
	errMsg     string
	pending    bool
	cancel     context.CancelFunc
	unmounted  bool
	lastActive time.Time
}

// New creates a form that submits through client and navigates to
// successRoute once the endpoint accepts the credentials.
func New(id string, client domain.AuthClient, successRoute string) *Form {
	return newForm(id, client, successRoute, time.Now)
}

func newForm(id string, client domain.AuthClient, successRoute string, now func() time.Time) *Form {
	return &Form{
		id:           id,
		client:       client,
		successRoute: successRoute,
		now:          now,
		lastActive:   now(),
	}
}

// ID returns the identifier the form was mounted under.
func (f *Form) ID() string { return f.id }

// State returns a copy of the current field values.
func (f *Form) State() domain.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ErrorMessage returns the message produced by the most recent submission,
// or "" when there is none.
func (f *Form) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// SetField stores value at field. Values are not validated here; the rendered
// inputs carry the required and email constraints.
func (f *Form) SetField(field domain.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unmounted {
		return domain.ErrUnmounted
	}
	if err := f.state.Set(field, value); err != nil {
		return fmt.Errorf("set %q: %w", field, err)
	}
	f.lastActive = f.now()
	return nil
}

// Submit sends the current field values to the auth endpoint and waits for
// the answer. On success the error slot is cleared and nav is asked to go to
// the success route exactly once. A rejection stores the response body
// verbatim; a network failure stores NetworkFailurePrefix plus the error
// text. Neither of those navigates and neither is returned as an error: the
// returned error is reserved for submissions that could not run at all
// (ErrSubmitPending, ErrUnmounted) or a failing navigation.
func (f *Form) Submit(ctx context.Context, nav domain.Navigator) (Outcome, error) {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return "", domain.ErrUnmounted
	}
	if f.pending {
		f.mu.Unlock()
		return "", domain.ErrSubmitPending
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	f.pending = true
	f.cancel = cancel
	f.errMsg = ""
	f.lastActive = f.now()
	state := f.state
	f.mu.Unlock()

	err := f.client.Login(ctx, state)

	f.mu.Lock()
	f.pending = false
	f.cancel = nil
	if f.unmounted {
		// Torn down while waiting: drop the result.
		f.mu.Unlock()
		return "", domain.ErrUnmounted
	}
	f.lastActive = f.now()
	var (
		outcome  Outcome
		rejected *auth_errors.RejectedError
	)
	switch {
	case err == nil:
		f.errMsg = ""
		outcome = OutcomeSuccess
	case errors.As(err, &rejected):
		f.errMsg = rejected.Body
		outcome = OutcomeRejected
	default:
		f.errMsg = NetworkFailurePrefix + err.Error()
		outcome = OutcomeNetworkFailure
	}
	f.mu.Unlock()

	if outcome != OutcomeSuccess {
		return outcome, nil
	}
	if err := nav.Navigate(ctx, f.successRoute); err != nil {
		return outcome, fmt.Errorf("navigate to %s: %w", f.successRoute, err)
	}
	return outcome, nil
}

// Pending reports whether a submission is waiting for the auth endpoint.
func (f *Form) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Unmount tears the form down. An in-flight request is cancelled and its
// result discarded. Unmount is idempotent.
func (f *Form) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unmounted {
		return
	}
	f.unmounted = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.state = domain.FormState{}
	f.errMsg = ""
}

// idleSince returns the last time the form was used, and whether it may be
// expired (it is not waiting on the endpoint).
func (f *Form) idleSince() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive, !f.pending
}
