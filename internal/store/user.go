package store

import (
	"context"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// UserStore reads the local "users" relation used by username sign-in.
type UserStore interface {
	// GetByUsername returns the user with the given username.
	// Returns ErrUserNotFound if no row matches.
	GetByUsername(ctx context.Context, username string) (*domain.LocalUser, error)
}

// ProfileStore persists profiles keyed by identity ID.
type ProfileStore interface {
	// Get returns the profile of the identity, or ErrProfileNotFound.
	Get(ctx context.Context, id string) (*domain.Profile, error)

	// Upsert inserts the profile or updates the fields set on update.
	Upsert(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error)

	// Delete removes the profile row. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error
}
