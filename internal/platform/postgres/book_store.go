package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const bookColumns = "id::text, title, author, description, category, created_at"

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context, q store.BookQuery) (*store.BookPage, error) {
	where, args := bookFilter(q)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books"+where, args...).Scan(&total); err != nil {
		return nil, store.NewStoreError("book", "count", MapError(err))
	}

	query := fmt.Sprintf(
		"SELECT %s FROM books%s ORDER BY created_at, id LIMIT $%d OFFSET $%d",
		bookColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, store.NewStoreError("book", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.CreatedAt); err != nil {
			return nil, store.NewStoreError("book", "list", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("book", "list", MapError(err))
	}

	s.logger.DebugContext(ctx, "listed books",
		slog.Int("page", q.Page),
		slog.Int("returned", len(books)),
		slog.Int("total", total))

	return &store.BookPage{Books: books, Total: total}, nil
}

// Get implements store.BookStore.Get.
// The id is compared as text so a malformed id is simply not found.
func (s *PostgresBookStore) Get(ctx context.Context, id string) (*domain.Book, error) {
	var b domain.Book
	err := s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id::text = $1", id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("book", "get", MapError(err))
	}
	return &b, nil
}

// bookFilter builds the WHERE clause and arguments for q.
func bookFilter(q store.BookQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%[1]d OR author ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE metacharacters so term matches literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
