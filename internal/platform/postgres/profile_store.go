package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const profileColumns = "id::text, first_name, last_name, full_name, avatar_url, bio, updated_at"

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.FullName, &p.AvatarURL, &p.Bio, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id::text = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("profile", "get", MapError(err))
	}
	return p, nil
}

// Upsert implements store.ProfileStore.Upsert.
// Nil fields on update keep the stored value unless listed in update.Clear.
func (s *PostgresProfileStore) Upsert(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, first_name, last_name, full_name, avatar_url, bio, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			first_name = CASE WHEN $8 THEN NULL ELSE COALESCE(EXCLUDED.first_name, profiles.first_name) END,
			last_name  = CASE WHEN $9 THEN NULL ELSE COALESCE(EXCLUDED.last_name, profiles.last_name) END,
			full_name  = EXCLUDED.full_name,
			avatar_url = CASE WHEN $10 THEN NULL ELSE COALESCE(EXCLUDED.avatar_url, profiles.avatar_url) END,
			bio        = CASE WHEN $11 THEN NULL ELSE COALESCE(EXCLUDED.bio, profiles.bio) END,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		update.ID, update.FirstName, update.LastName, update.FullName,
		update.AvatarURL, update.Bio, update.UpdatedAt,
		update.Clears(domain.ProfileFirstName), update.Clears(domain.ProfileLastName),
		update.Clears(domain.ProfileAvatarURL), update.Clears(domain.ProfileBio),
	))
	if err != nil {
		return nil, store.NewStoreError("profile", "upsert", MapError(err))
	}
	return p, nil
}

// Delete implements store.ProfileStore.Delete
func (s *PostgresProfileStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id::text = $1", id); err != nil {
		return store.NewStoreError("profile", "delete", MapError(err))
	}
	s.logger.DebugContext(ctx, "profile deleted", slog.String("profile_id", id))
	return nil
}
