package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nfrund/regform/internal/authclient"
)

// Config holds all configuration for the application.
type Config struct {
	AppAddr        string        `validate:"required"`
	AuthEndpoint   string        `validate:"required,url"`
	AuthTimeout    time.Duration `validate:"gte=0"`
	DashboardRoute string        `validate:"required,startswith=/"`
	LoginRoute     string        `validate:"required,startswith=/"`
	SubmitLabel    string        `validate:"required"`
	SessionSecret  string        `validate:"required,min=16"`
	FormTTL        time.Duration `validate:"gt=0"`
	MaxForms       int           `validate:"gte=0"`
	RateLimit      float64       `validate:"gt=0"`
	LogFormat      string        `validate:"oneof=text json"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
}

// Defaults applied when a variable is unset. The submit label and endpoint
// keep the values the registration page has always shipped with.
const (
	DefaultAppAddr        = ":3000"
	DefaultDashboardRoute = "/dashboard"
	DefaultLoginRoute     = "/login"
	DefaultSubmitLabel    = "Log In"
	DefaultFormTTL        = 30 * time.Minute
	DefaultRateLimit      = 10
	DefaultMaxForms       = 10000
)

// Load reads configuration from the environment, after loading a .env file
// when one is present, and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppAddr:        getenv("APP_ADDR", DefaultAppAddr),
		AuthEndpoint:   getenv("AUTH_ENDPOINT", authclient.DefaultEndpoint),
		DashboardRoute: getenv("DASHBOARD_ROUTE", DefaultDashboardRoute),
		LoginRoute:     getenv("LOGIN_ROUTE", DefaultLoginRoute),
		SubmitLabel:    getenv("SUBMIT_LABEL", DefaultSubmitLabel),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.AuthTimeout, err = durationEnv("AUTH_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.FormTTL, err = durationEnv("FORM_TTL", DefaultFormTTL); err != nil {
		return nil, err
	}
	if v := os.Getenv("MAX_FORMS"); v != "" {
		if cfg.MaxForms, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("MAX_FORMS: %w", err)
		}
	} else {
		cfg.MaxForms = DefaultMaxForms
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if cfg.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("RATE_LIMIT: %w", err)
		}
	} else {
		cfg.RateLimit = DefaultRateLimit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
