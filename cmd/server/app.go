package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/booksaas/booksaas-api/internal/api"
	"github.com/booksaas/booksaas-api/internal/api/middleware"
	"github.com/booksaas/booksaas-api/internal/config"
	"github.com/booksaas/booksaas-api/internal/platform/postgres"
	"github.com/booksaas/booksaas-api/internal/platform/rediscache"
	"github.com/booksaas/booksaas-api/internal/platform/supabase"
	"github.com/booksaas/booksaas-api/internal/service/auth"
	"github.com/booksaas/booksaas-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	cache  *rediscache.Client

	// External Service clients, one per credential level
	serviceClient *supabase.Client
	anonClient    *supabase.Client

	// Stores (using interfaces for proper abstraction)
	bookStore    store.BookStore
	libraryStore store.LibraryStore
	profileStore store.ProfileStore
	userStore    store.UserStore

	// Service interfaces
	accounts         auth.AccountService
	verifier         auth.SessionVerifier
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	rateLimiter      middleware.RateLimiter

	errors *api.ErrorWriter
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		errors: api.NewErrorWriter(cfg.Server.IsDevelopment()),
	}

	if err := app.initClients(); err != nil {
		return nil, err
	}

	if cfg.Redis.URL != "" {
		cache, err := rediscache.New(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.cache = cache
		logger.Info("Redis connected")
	}

	if err := app.initStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	if err := app.initAuth(); err != nil {
		app.cleanup()
		return nil, err
	}

	app.rateLimiter = app.newRateLimiter()

	logger.Info("Application initialized successfully")
	return app, nil
}

// initClients creates the privileged and the unprivileged client.
func (app *application) initClients() error {
	cfg := app.config.Supabase
	opts := []supabase.Option{
		supabase.WithTimeout(cfg.RequestTimeout),
		supabase.WithLogger(app.logger),
	}

	var err error
	app.serviceClient, err = supabase.NewClient(cfg.URL, cfg.ServiceRoleKey, opts...)
	if err != nil {
		return fmt.Errorf("failed to create service client: %w", err)
	}

	if cfg.AnonKey == "" {
		app.logger.Warn("supabase.anon_key is not set; user-facing calls use the service key")
	}
	app.anonClient, err = supabase.NewClient(cfg.URL, cfg.UnprivilegedKey(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create anon client: %w", err)
	}

	return nil
}

// initStores selects the data backend.
func (app *application) initStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, app.config.Database.URL, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.bookStore = postgres.NewPostgresBookStore(db, app.logger)
		app.libraryStore = postgres.NewPostgresLibraryStore(db, app.logger)
		app.profileStore = postgres.NewPostgresProfileStore(db, app.logger)
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
	default:
		app.bookStore = supabase.NewRESTBookStore(app.serviceClient, app.logger)
		app.libraryStore = supabase.NewRESTLibraryStore(app.serviceClient, app.logger)
		app.profileStore = supabase.NewRESTProfileStore(app.serviceClient, app.logger)
		app.userStore = supabase.NewRESTUserStore(app.anonClient, app.logger)
	}

	app.logger.Info("Stores initialized", "driver", app.config.Database.Driver)
	return nil
}

// initAuth wires token verification, local sign-in tokens and password checks.
func (app *application) initAuth() error {
	cfg := app.config.Auth

	app.accounts = app.anonClient.Auth()

	app.verifier = auth.NewIdentityVerifier(app.serviceClient.Auth(), app.logger)
	if cfg.VerifyCacheTTL > 0 {
		var cache auth.IdentityCache = auth.NewMemoryIdentityCache()
		if app.cache != nil {
			cache = app.cache
		}
		app.verifier = auth.NewCachingVerifier(app.verifier, cache, cfg.VerifyCacheTTL, app.logger)
		app.logger.Info("Verified-token cache enabled",
			"ttl", cfg.VerifyCacheTTL.String(),
			"shared", app.cache != nil)
	}

	if cfg.JWTSecret == "" {
		app.logger.Warn("auth.jwt_secret is not set; username sign-in cannot issue tokens")
	}
	app.jwtService = auth.NewJWTService(cfg)

	var err error
	app.passwordVerifier, err = auth.NewPasswordVerifier(cfg.PasswordScheme)
	if err != nil {
		return fmt.Errorf("failed to initialize password verifier: %w", err)
	}
	if cfg.PasswordScheme != config.PasswordSchemeBcrypt {
		app.logger.Warn("local passwords are compared in plaintext; set auth.password_scheme=bcrypt")
	}

	return nil
}

// newRateLimiter returns the inbound limiter, or nil when rate limiting is off.
func (app *application) newRateLimiter() middleware.RateLimiter {
	cfg := app.config.Server
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		app.logger.Warn("rate limiting disabled")
		return nil
	}
	if app.cache != nil {
		return middleware.NewWindowRateLimiter(app.cache, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	return middleware.NewMemoryRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
