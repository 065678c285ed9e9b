package config_test

import (
	"testing"
	"time"

	"github.com/nfrund/regform/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSessionSecret)

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.AppAddr)
	assert.Equal(t, "http://localhost:8080/api/auth/login", cfg.AuthEndpoint)
	assert.Equal(t, "/dashboard", cfg.DashboardRoute)
	assert.Equal(t, "/login", cfg.LoginRoute)
	assert.Equal(t, "Log In", cfg.SubmitLabel)
	assert.Equal(t, 30*time.Minute, cfg.FormTTL)
	assert.Zero(t, cfg.AuthTimeout)
	assert.Equal(t, float64(10), cfg.RateLimit)
	assert.Equal(t, 10000, cfg.MaxForms)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSessionSecret)
	t.Setenv("AUTH_ENDPOINT", "https://auth.example.com/api/auth/register")
	t.Setenv("AUTH_TIMEOUT", "5s")
	t.Setenv("FORM_TTL", "10m")
	t.Setenv("SUBMIT_LABEL", "Register")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("MAX_FORMS", "500")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example.com/api/auth/register", cfg.AuthEndpoint)
	assert.Equal(t, 5*time.Second, cfg.AuthTimeout)
	assert.Equal(t, 10*time.Minute, cfg.FormTTL)
	assert.Equal(t, "Register", cfg.SubmitLabel)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 500, cfg.MaxForms)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing session secret": {},
		"short session secret":   {"SESSION_SECRET": "short"},
		"bad endpoint":           {"SESSION_SECRET": testSessionSecret, "AUTH_ENDPOINT": "not a url"},
		"bad ttl":                {"SESSION_SECRET": testSessionSecret, "FORM_TTL": "soon"},
		"zero ttl":               {"SESSION_SECRET": testSessionSecret, "FORM_TTL": "0s"},
		"relative route":         {"SESSION_SECRET": testSessionSecret, "DASHBOARD_ROUTE": "dashboard"},
		"bad log format":         {"SESSION_SECRET": testSessionSecret, "LOG_FORMAT": "xml"},
		"bad max forms":          {"SESSION_SECRET": testSessionSecret, "MAX_FORMS": "many"},
		"negative max forms":     {"SESSION_SECRET": testSessionSecret, "MAX_FORMS": "-1"},
		"bad rate limit":         {"SESSION_SECRET": testSessionSecret, "RATE_LIMIT": "lots"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}
