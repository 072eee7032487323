package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/service/auth"
)

// Authenticator gates routes on a provider-issued access token.
type Authenticator struct {
	verifier auth.SessionVerifier
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator that resolves tokens with verifier.
func NewAuthenticator(verifier auth.SessionVerifier, logger *slog.Logger) *Authenticator {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		verifier: verifier,
		logger:   logger.With(slog.String("component", "authenticator")),
	}
}

// Require rejects requests without a valid access token.
//
//   - no token: 401, the verifier is not called
//   - token rejected by the provider: 403
//   - verification failed for any other reason: 500
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Access token required", "Please provide a valid access token")
			return
		}

		identity, err := a.verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, shared.ErrorResponse{
					Error:   "Invalid token",
					Message: "The provided token is invalid or expired",
				}, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, shared.ErrorResponse{
				Error:   "Authentication error",
				Message: "An error occurred during authentication",
			}, err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the identity when a valid token is present and otherwise
// continues anonymously. It never rejects a request.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.verify(r.Context(), token)
		if err != nil {
			a.logger.DebugContext(r.Context(), "continuing without identity",
				slog.String("reason", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verify calls the verifier, turning a panic into an error.
func (a *Authenticator) verify(ctx context.Context, token string) (identity *domain.Identity, err error) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.ErrorContext(ctx, "panic during token verification", slog.Any("panic", p))
			identity, err = nil, fmt.Errorf("token verification panicked: %v", p)
		}
	}()

	identity, err = a.verifier.Verify(ctx, token)
	if err == nil && (identity == nil || identity.ID == "") {
		err = fmt.Errorf("%w: empty identity", auth.ErrInvalidToken)
	}
	return identity, err
}

// extractToken returns the second space-separated segment of the Authorization
// header. The scheme word is not checked and further segments are ignored.
func extractToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
