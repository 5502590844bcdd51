// Package main is the entry point for the SkillForge app server.
//
// main stays minimal: read configuration, create the logger, hand off to
// internal/server. All actual logic lives in imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/thakurAarusH/skillforge/internal/server"
)

type config struct {
	Addr       string        `env:"ADDR" envDefault:":8080"`
	DBPath     string        `env:"DB_PATH" envDefault:"data/skillforge.db"`
	LoginDelay time.Duration `env:"LOGIN_DELAY" envDefault:"1500ms"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the data directory exists before the store opens its file.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(server.Config{
		Addr:       cfg.Addr,
		DBPath:     cfg.DBPath,
		LoginDelay: cfg.LoginDelay,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
