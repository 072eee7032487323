package auth

import (
	"context"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// JWTService issues and validates the tokens returned by username sign-in.
// These tokens are distinct from provider access tokens and are not accepted
// by the request authenticator.
type JWTService interface {
	// GenerateToken creates a signed access token for a local user.
	// Returns ErrSigningKeyMissing when no secret is configured.
	GenerateToken(ctx context.Context, user *domain.LocalUser) (string, error)

	// ValidateToken validates the token string and extracts the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// Username of the local user the token was issued for.
	Username string `json:"username,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
