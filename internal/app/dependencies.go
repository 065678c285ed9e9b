package app

import (
	"fmt"

	"github.com/nfrund/regform/internal/authclient"
	"github.com/nfrund/regform/internal/config"
	"github.com/nfrund/regform/internal/handlers"
	"github.com/nfrund/regform/internal/metrics"
	"github.com/nfrund/regform/internal/regform"
	"github.com/nfrund/regform/internal/rendering"
	"github.com/samber/do/v2"
)

// NewInjector registers the application's services. Each is built lazily on
// first use and then shared.
func NewInjector(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, provideAuthClient)
	do.Provide(injector, provideFormStore)
	do.Provide(injector, provideMetrics)
	do.Provide(injector, provideRenderer)
	do.Provide(injector, provideRegisterHandler)

	return injector
}

func provideAuthClient(i do.Injector) (*authclient.Client, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	client, err := authclient.New(cfg.AuthEndpoint, authclient.WithTimeout(cfg.AuthTimeout))
	if err != nil {
		return nil, fmt.Errorf("create auth client: %w", err)
	}
	return client, nil
}

func provideFormStore(i do.Injector) (*regform.Store, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	client, err := do.Invoke[*authclient.Client](i)
	if err != nil {
		return nil, err
	}
	return regform.NewStore(client, cfg.DashboardRoute, cfg.FormTTL, regform.WithMaxForms(cfg.MaxForms)), nil
}

func provideMetrics(i do.Injector) (*metrics.Metrics, error) {
	store, err := do.Invoke[*regform.Store](i)
	if err != nil {
		return nil, err
	}
	return metrics.New(store.Len), nil
}

func provideRenderer(do.Injector) (*rendering.UniversalRenderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func provideRegisterHandler(i do.Injector) (*handlers.RegisterHandler, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	store, err := do.Invoke[*regform.Store](i)
	if err != nil {
		return nil, err
	}
	renderer, err := do.Invoke[*rendering.UniversalRenderer](i)
	if err != nil {
		return nil, err
	}
	m, err := do.Invoke[*metrics.Metrics](i)
	if err != nil {
		return nil, err
	}
	return handlers.NewRegisterHandler(store, renderer, m, cfg.SubmitLabel, cfg.LoginRoute), nil
}
