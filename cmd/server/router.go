package main

import (
	"net/http"

	"github.com/booksaas/booksaas-api/internal/api"
	apiMiddleware "github.com/booksaas/booksaas-api/internal/api/middleware"
	"github.com/booksaas/booksaas-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Recoverer)
	r.Use(apiMiddleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.Server.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if app.rateLimiter != nil {
		r.Use(apiMiddleware.NewRateLimitMiddleware(app.rateLimiter))
	}
	r.Use(middleware.RequestSize(app.config.Server.MaxBodyBytes))
	r.Use(apiMiddleware.RequireJSONBody)

	authenticator := apiMiddleware.NewAuthenticator(app.verifier, app.logger)

	authHandler := api.NewAuthHandler(
		app.accounts,
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Server.FrontendURL,
		app.errors,
	)
	if revoker, ok := app.verifier.(auth.TokenRevoker); ok {
		authHandler.WithTokenRevoker(revoker)
	}
	bookHandler := api.NewBookHandler(app.bookStore, app.libraryStore, app.errors)
	userHandler := api.NewUserHandler(app.profileStore, app.errors)

	r.Get("/health", api.HealthHandler(nil))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.With(authenticator.Require).Post("/signout", authHandler.SignOut)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Route("/books", func(r chi.Router) {
			r.With(authenticator.Optional).Get("/", bookHandler.List)
			r.With(authenticator.Require).Get("/library/my-books", bookHandler.MyLibrary)
			r.With(authenticator.Optional).Get("/{id}", bookHandler.Get)
			r.With(authenticator.Require).Post("/{id}/add-to-library", bookHandler.AddToLibrary)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authenticator.Require)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Delete("/account", userHandler.DeleteAccount)
		})
	})

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.NotFoundHandler)

	return r
}
