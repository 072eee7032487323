package supabase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const usersTable = "users"

// RESTUserStore implements store.UserStore on the service's data API.
type RESTUserStore struct {
	client *Client
	logger *slog.Logger
}

// NewRESTUserStore creates a local user store backed by client.
// If logger is nil, a default logger will be used.
func NewRESTUserStore(client *Client, logger *slog.Logger) *RESTUserStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTUserStore{
		client: client,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure RESTUserStore implements store.UserStore interface
var _ store.UserStore = (*RESTUserStore)(nil)

// GetByUsername implements store.UserStore.GetByUsername.
// More than one matching row is reported as store.ErrDuplicate.
func (s *RESTUserStore) GetByUsername(ctx context.Context, username string) (*domain.LocalUser, error) {
	var users []domain.LocalUser
	_, err := s.client.From(usersTable).
		Select("*").
		Eq("username", username).
		Limit(2).
		Execute(ctx, &users)
	if err != nil {
		return nil, store.NewStoreError("user", "get", err)
	}

	switch len(users) {
	case 0:
		return nil, store.ErrUserNotFound
	case 1:
		return &users[0], nil
	default:
		s.logger.ErrorContext(ctx, "username matches more than one user row")
		return nil, store.NewStoreError("user", "get",
			fmt.Errorf("%w: username is not unique", store.ErrDuplicate))
	}
}
