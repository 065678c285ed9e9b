package regform

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/regform/internal/domain"
)

// Store keeps the mounted forms, one per rendered page, keyed by a random
// UUID. Forms idle for longer than the TTL are unmounted by Sweep, and once
// the store holds maxForms forms each Mount evicts the longest-idle one.
type Store struct {
	client       domain.AuthClient
	successRoute string
	ttl          time.Duration
	maxForms     int
	now          func() time.Time

	mu    sync.RWMutex
	forms map[string]*Form
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithMaxForms caps the number of mounted forms. Zero or less means no cap.
func WithMaxForms(n int) StoreOption {
	return func(s *Store) { s.maxForms = n }
}

// NewStore creates a store whose forms submit through client.
func NewStore(client domain.AuthClient, successRoute string, ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		client:       client,
		successRoute: successRoute,
		ttl:          ttl,
		now:          time.Now,
		forms:        make(map[string]*Form),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount creates and registers a fresh form with empty fields. When the store
// is full the longest-idle form is unmounted first. Forms waiting on the
// endpoint are never evicted, so the cap can be exceeded while every form
// has a submission in flight.
func (s *Store) Mount() *Form {
	f := newForm(uuid.NewString(), s.client, s.successRoute, s.now)

	var evicted *Form
	s.mu.Lock()
	if s.maxForms > 0 && len(s.forms) >= s.maxForms {
		evicted = s.oldestIdleLocked()
		if evicted != nil {
			delete(s.forms, evicted.ID())
		}
	}
	s.forms[f.ID()] = f
	s.mu.Unlock()

	if evicted != nil {
		evicted.Unmount()
		slog.Debug("Evicted idle form", "form_id", evicted.ID())
	}
	return f
}

func (s *Store) oldestIdleLocked() *Form {
	var (
		oldest     *Form
		oldestSeen time.Time
	)
	for _, f := range s.forms {
		last, idle := f.idleSince()
		if !idle {
			continue
		}
		if oldest == nil || last.Before(oldestSeen) {
			oldest, oldestSeen = f, last
		}
	}
	return oldest
}

// Get returns the mounted form with the given id.
func (s *Store) Get(id string) (*Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrFormNotFound
	}
	s.mu.RLock()
	f, ok := s.forms[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	return f, nil
}

// Unmount removes the form and cancels any request it has in flight.
// It reports whether a form was mounted under id.
func (s *Store) Unmount(id string) bool {
	s.mu.Lock()
	f, ok := s.forms[id]
	delete(s.forms, id)
	s.mu.Unlock()
	if ok {
		f.Unmount()
	}
	return ok
}

// Len returns the number of mounted forms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}

// Sweep unmounts every form idle for longer than the TTL and returns how
// many were removed. Forms waiting on the endpoint are never swept.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	var expired []*Form
	s.mu.Lock()
	for id, f := range s.forms {
		last, idle := f.idleSince()
		if idle && last.Before(cutoff) {
			expired = append(expired, f)
			delete(s.forms, id)
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		f.Unmount()
	}
	return len(expired)
}

// Run calls Sweep every interval until ctx is done, then unmounts every
// remaining form.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.unmountAll()
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("Expired idle forms", "count", n)
			}
		}
	}
}

func (s *Store) unmountAll() {
	s.mu.Lock()
	forms := s.forms
	s.forms = make(map[string]*Form)
	s.mu.Unlock()

	for _, f := range forms {
		f.Unmount()
	}
}
