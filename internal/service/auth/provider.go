package auth

import (
	"context"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// AccountService is the account lifecycle half of the auth provider.
type AccountService interface {
	// SignUp registers a new identity with the provider.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.SignUpResult, error)

	// SignOut revokes the session of accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// RefreshSession exchanges a refresh token for a new session.
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error)

	// ResetPasswordForEmail starts the provider's password-reset email flow.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
}
