package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/nfrund/regform/internal/config"
	"github.com/nfrund/regform/internal/logging"
	"github.com/nfrund/regform/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet.
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.New(cfg.LogFormat, cfg.LogLevel)

	s, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	s.RegisterRoutes()

	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
