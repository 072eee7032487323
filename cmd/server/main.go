// Package main implements the entry point for the Book SaaS API server, which
// serves the book catalogue, per-user libraries and profiles on top of the
// hosted auth and data service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/booksaas/booksaas-api/internal/config"
	"github.com/booksaas/booksaas-api/internal/platform/logger"
	"github.com/booksaas/booksaas-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a schema migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	cfg, l, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	if *migrate != "" {
		if err := runMigrations(ctx, cfg, l, *migrate); err != nil {
			l.Error("migration failed", "command", *migrate, "error", err)
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		l.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		l.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment,
		"database_driver", cfg.Database.Driver,
		"redis_enabled", cfg.Redis.URL != "")

	return cfg, l, nil
}

// runMigrations applies command to the direct Postgres database.
func runMigrations(ctx context.Context, cfg *config.Config, l *slog.Logger, command string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required to run migrations")
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, l)
}
