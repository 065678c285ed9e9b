package authclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/regform/internal/authclient"
	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/domain/auth_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = domain.FormState{Username: "alice", Email: "a@b.com", Password: "pw"}

func TestNew(t *testing.T) {
	c, err := authclient.New(authclient.DefaultEndpoint)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/auth/login", c.Endpoint())

	_, err = authclient.New("ftp://example.com/login")
	assert.Error(t, err)

	_, err = authclient.New("://bad")
	assert.Error(t, err)
}

func TestClient_Login(t *testing.T) {
	t.Run("posts the form state as JSON", func(t *testing.T) {
		var (
			gotMethod, gotType string
			gotBody            map[string]string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "ignored")
		}))
		defer srv.Close()

		c, err := authclient.New(srv.URL + "/api/auth/login")
		require.NoError(t, err)

		require.NoError(t, c.Login(context.Background(), alice))
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotType)
		assert.Equal(t, map[string]string{"username": "alice", "email": "a@b.com", "password": "pw"}, gotBody)
	})

	t.Run("any 2xx is success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c, err := authclient.New(srv.URL)
		require.NoError(t, err)
		assert.NoError(t, c.Login(context.Background(), alice))
	})

	t.Run("non-success status returns the body verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, "invalid credentials")
		}))
		defer srv.Close()

		c, err := authclient.New(srv.URL)
		require.NoError(t, err)

		err = c.Login(context.Background(), alice)
		var rejected *auth_errors.RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusUnauthorized, rejected.Status)
		assert.Equal(t, "invalid credentials", rejected.Body)
	})

	t.Run("unreachable endpoint is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL
		srv.Close()

		c, err := authclient.New(endpoint)
		require.NoError(t, err)

		err = c.Login(context.Background(), alice)
		var netErr *auth_errors.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.NotContains(t, netErr.Error(), endpoint, "the url wrapper is stripped")
	})

	t.Run("cancelled context is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		c, err := authclient.New(srv.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = c.Login(ctx, alice)
		var netErr *auth_errors.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

type relay struct {
	out []*http.Cookie
	in  []*http.Cookie
}

func (r *relay) Outgoing() []*http.Cookie       { return r.out }
func (r *relay) Incoming(cookies []*http.Cookie) { r.in = append(r.in, cookies...) }

func TestClient_LoginRelaysCookies(t *testing.T) {
	var gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("JSESSIONID"); err == nil {
			gotSession = ck.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: "token-1", Path: "/"})
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "bad password")
	}))
	defer srv.Close()

	c, err := authclient.New(srv.URL)
	require.NoError(t, err)

	r := &relay{out: []*http.Cookie{{Name: "JSESSIONID", Value: "abc"}}}
	err = c.Login(authclient.WithCookieRelay(context.Background(), r), alice)

	assert.Error(t, err)
	assert.Equal(t, "abc", gotSession)
	require.Len(t, r.in, 1)
	assert.Equal(t, "auth", r.in[0].Name)
	assert.Equal(t, "token-1", r.in[0].Value)
}

func TestClient_WithCookieJar(t *testing.T) {
	calls := 0
	var secondCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "token-1", Path: "/"})
		} else if ck, err := r.Cookie("auth"); err == nil {
			secondCookie = ck.Value
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c, err := authclient.New(srv.URL, authclient.WithCookieJar(jar), authclient.WithTimeout(5*time.Second))
	require.NoError(t, err)

	require.NoError(t, c.Login(context.Background(), alice))
	require.NoError(t, c.Login(context.Background(), alice))
	assert.Equal(t, "token-1", secondCookie)
}

func TestClient_LoginTruncatesLongRejection(t *testing.T) {
	long := strings.Repeat("x", 64<<10+10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, long)
	}))
	defer srv.Close()

	c, err := authclient.New(srv.URL)
	require.NoError(t, err)

	var rejected *auth_errors.RejectedError
	require.ErrorAs(t, c.Login(context.Background(), alice), &rejected)
	assert.Equal(t, long[:64<<10]+authclient.TruncatedMarker, rejected.Body)

	t.Run("a body at the limit is kept whole", func(t *testing.T) {
		exact := strings.Repeat("y", 64<<10)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, exact)
		}))
		defer srv.Close()

		c, err := authclient.New(srv.URL)
		require.NoError(t, err)

		var rejected *auth_errors.RejectedError
		require.ErrorAs(t, c.Login(context.Background(), alice), &rejected)
		assert.Equal(t, exact, rejected.Body)
	})
}

func TestNew_OptionOrder(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("auth"); err == nil {
			gotCookie = ck.Value
		} else {
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "token-1", Path: "/"})
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	base := &http.Client{}
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	// Jar and timeout given before the base client still apply.
	c, err := authclient.New(srv.URL,
		authclient.WithCookieJar(jar),
		authclient.WithTimeout(5*time.Second),
		authclient.WithHTTPClient(base),
	)
	require.NoError(t, err)

	require.NoError(t, c.Login(context.Background(), alice))
	require.NoError(t, c.Login(context.Background(), alice))
	assert.Equal(t, "token-1", gotCookie)

	assert.Nil(t, base.Jar, "caller's client is left untouched")
	assert.Zero(t, base.Timeout)
}
