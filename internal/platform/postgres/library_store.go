package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

// PostgresLibraryStore implements the store.LibraryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLibraryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLibraryStore creates a new PostgreSQL implementation of the LibraryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLibraryStore(db store.DBTX, logger *slog.Logger) *PostgresLibraryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLibraryStore{
		db:     db,
		logger: logger.With(slog.String("component", "library_store")),
	}
}

// Ensure PostgresLibraryStore implements store.LibraryStore interface
var _ store.LibraryStore = (*PostgresLibraryStore)(nil)

// Upsert implements store.LibraryStore.Upsert.
// A reference to an unknown book is reported as store.ErrInvalidEntity.
func (s *PostgresLibraryStore) Upsert(
	ctx context.Context,
	userID, bookID string,
	addedAt time.Time,
) (*domain.UserBook, error) {
	var ub domain.UserBook
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_books (user_id, book_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id) DO UPDATE SET added_at = EXCLUDED.added_at
		RETURNING user_id::text, book_id::text, added_at`,
		userID, bookID, addedAt.UTC(),
	).Scan(&ub.UserID, &ub.BookID, &ub.AddedAt)
	if err != nil {
		return nil, store.NewStoreError("user_book", "upsert", MapError(err))
	}

	s.logger.DebugContext(ctx, "library entry stored",
		slog.String("user_id", userID),
		slog.String("book_id", bookID))
	return &ub, nil
}

// ListByUser implements store.LibraryStore.ListByUser
func (s *PostgresLibraryStore) ListByUser(ctx context.Context, userID string) ([]domain.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ub.user_id::text, ub.book_id::text, ub.added_at,
		       b.id::text, b.title, b.author, b.description, b.category, b.created_at
		FROM user_books ub
		JOIN books b ON b.id = ub.book_id
		WHERE ub.user_id::text = $1
		ORDER BY ub.added_at DESC`, userID)
	if err != nil {
		return nil, store.NewStoreError("user_book", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.LibraryEntry{}
	for rows.Next() {
		var e domain.LibraryEntry
		b := &domain.Book{}
		if err := rows.Scan(
			&e.UserID, &e.BookID, &e.AddedAt,
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("user_book", "list", err)
		}
		e.Book = b
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user_book", "list", MapError(err))
	}
	return entries, nil
}
