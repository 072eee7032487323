package supabase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const profilesTable = "profiles"

// RESTProfileStore implements store.ProfileStore on the service's data API.
type RESTProfileStore struct {
	client *Client
	logger *slog.Logger
}

// NewRESTProfileStore creates a profile store backed by client.
// If logger is nil, a default logger will be used.
func NewRESTProfileStore(client *Client, logger *slog.Logger) *RESTProfileStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTProfileStore{
		client: client,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure RESTProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*RESTProfileStore)(nil)

// Get implements store.ProfileStore.Get
func (s *RESTProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var profiles []domain.Profile
	_, err := s.client.From(profilesTable).
		Select("*").
		Eq("id", id).
		Limit(1).
		Execute(ctx, &profiles)
	if err != nil {
		return nil, store.NewStoreError("profile", "get", err)
	}
	if len(profiles) == 0 {
		return nil, store.ErrProfileNotFound
	}
	return &profiles[0], nil
}

// Upsert implements store.ProfileStore.Upsert.
// Fields left nil on update are not sent, so an existing row keeps them.
func (s *RESTProfileStore) Upsert(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error) {
	var profiles []domain.Profile
	if err := s.client.From(profilesTable).Upsert(ctx, update, "id", &profiles); err != nil {
		return nil, store.NewStoreError("profile", "upsert", err)
	}
	if len(profiles) == 0 {
		return nil, store.NewStoreError("profile", "upsert",
			fmt.Errorf("no row returned for profile %s", update.ID))
	}
	return &profiles[0], nil
}

// Delete implements store.ProfileStore.Delete
func (s *RESTProfileStore) Delete(ctx context.Context, id string) error {
	if err := s.client.From(profilesTable).Eq("id", id).Delete(ctx); err != nil {
		return store.NewStoreError("profile", "delete", err)
	}
	s.logger.DebugContext(ctx, "profile deleted", slog.String("profile_id", id))
	return nil
}
