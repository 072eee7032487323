package supabase

import (
	"context"
	"log/slog"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

const booksTable = "books"

// RESTBookStore implements store.BookStore on the service's data API.
type RESTBookStore struct {
	client *Client
	logger *slog.Logger
}

// NewRESTBookStore creates a book store backed by client.
// If logger is nil, a default logger will be used.
func NewRESTBookStore(client *Client, logger *slog.Logger) *RESTBookStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTBookStore{
		client: client,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure RESTBookStore implements store.BookStore interface
var _ store.BookStore = (*RESTBookStore)(nil)

// List implements store.BookStore.List.
// Search matches title, author or description; Category must match exactly.
func (s *RESTBookStore) List(ctx context.Context, q store.BookQuery) (*store.BookPage, error) {
	query := s.client.From(booksTable).
		Select("*").
		CountExact().
		Limit(q.Limit).
		Offset(q.Offset())

	if q.Search != "" {
		query.Or(
			ILike("title", q.Search),
			ILike("author", q.Search),
			ILike("description", q.Search),
		)
	}
	if q.Category != "" {
		query.Eq("category", q.Category)
	}

	var books []domain.Book
	total, err := query.Execute(ctx, &books)
	if err != nil {
		return nil, store.NewStoreError("book", "list", err)
	}

	if books == nil {
		books = []domain.Book{}
	}
	if total < 0 {
		total = len(books)
	}

	s.logger.DebugContext(ctx, "listed books",
		slog.Int("page", q.Page),
		slog.Int("returned", len(books)),
		slog.Int("total", total))

	return &store.BookPage{Books: books, Total: total}, nil
}

// Get implements store.BookStore.Get
func (s *RESTBookStore) Get(ctx context.Context, id string) (*domain.Book, error) {
	var books []domain.Book
	_, err := s.client.From(booksTable).
		Select("*").
		Eq("id", id).
		Limit(1).
		Execute(ctx, &books)
	if err != nil {
		return nil, store.NewStoreError("book", "get", err)
	}
	if len(books) == 0 {
		return nil, store.ErrBookNotFound
	}
	return &books[0], nil
}
