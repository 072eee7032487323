package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// IdentityProvider resolves a provider access token to its identity.
type IdentityProvider interface {
	GetUser(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// SessionVerifier turns an access token into the identity it belongs to.
type SessionVerifier interface {
	// Verify returns the token's identity. A token the provider rejects yields an
	// error wrapping ErrInvalidToken; any other error means the check itself failed.
	Verify(ctx context.Context, accessToken string) (*domain.Identity, error)
}

type identityVerifier struct {
	provider IdentityProvider
	logger   *slog.Logger
}

// NewIdentityVerifier creates a SessionVerifier that asks provider on every call.
func NewIdentityVerifier(provider IdentityProvider, logger *slog.Logger) SessionVerifier {
	if provider == nil {
		panic("provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &identityVerifier{
		provider: provider,
		logger:   logger.With(slog.String("component", "session_verifier")),
	}
}

// Verify implements SessionVerifier.
func (v *identityVerifier) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	identity, err := v.provider.GetUser(ctx, accessToken)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) && upstream.Status >= http.StatusBadRequest &&
			upstream.Status < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, upstream.Message)
		}
		if errors.Is(err, domain.ErrEmptyIdentity) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}
	if identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, domain.ErrEmptyIdentity)
	}

	return identity, nil
}
