package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const userBooksTable = "user_books"

// RESTLibraryStore implements store.LibraryStore on the service's data API.
type RESTLibraryStore struct {
	client *Client
	logger *slog.Logger
}

// NewRESTLibraryStore creates a library store backed by client.
// If logger is nil, a default logger will be used.
func NewRESTLibraryStore(client *Client, logger *slog.Logger) *RESTLibraryStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTLibraryStore{
		client: client,
		logger: logger.With(slog.String("component", "library_store")),
	}
}

// Ensure RESTLibraryStore implements store.LibraryStore interface
var _ store.LibraryStore = (*RESTLibraryStore)(nil)

// Upsert implements store.LibraryStore.Upsert
func (s *RESTLibraryStore) Upsert(
	ctx context.Context,
	userID, bookID string,
	addedAt time.Time,
) (*domain.UserBook, error) {
	row := domain.UserBook{UserID: userID, BookID: bookID, AddedAt: addedAt.UTC()}

	var rows []domain.UserBook
	if err := s.client.From(userBooksTable).Upsert(ctx, row, "user_id,book_id", &rows); err != nil {
		return nil, store.NewStoreError("user_book", "upsert", err)
	}
	if len(rows) == 0 {
		return nil, store.NewStoreError("user_book", "upsert",
			fmt.Errorf("no row returned for user %s and book %s", userID, bookID))
	}

	s.logger.DebugContext(ctx, "library entry stored",
		slog.String("user_id", userID),
		slog.String("book_id", bookID))
	return &rows[0], nil
}

// ListByUser implements store.LibraryStore.ListByUser
func (s *RESTLibraryStore) ListByUser(ctx context.Context, userID string) ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry
	_, err := s.client.From(userBooksTable).
		Select("*,books(*)").
		Eq("user_id", userID).
		Execute(ctx, &entries)
	if err != nil {
		return nil, store.NewStoreError("user_book", "list", err)
	}
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return entries, nil
}
