package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// sweepInterval is how often idle forms are checked for expiry.
const sweepInterval = time.Minute

// Start runs the HTTP server until an interrupt or terminate signal arrives,
// then shuts it down gracefully.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.forms.Run(ctx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.AppAddr, "auth_endpoint", s.Cfg.AuthEndpoint)
		if err := s.E.Start(s.Cfg.AppAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitForShutdown():
	}

	slog.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return s.E.Shutdown(shutdownCtx)
}
