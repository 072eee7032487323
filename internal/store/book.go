package store

import (
	"context"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// Pagination bounds for book listings. With both caps applied Offset stays
// far below the range of a 32-bit integer.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPage      = 1_000_000
	MaxLimit     = 100
)

// BookQuery selects a page of books. Page is 1-indexed.
type BookQuery struct {
	Page     int
	Limit    int
	Search   string // case-insensitive substring of title, author or description
	Category string // exact match
}

// Offset returns the number of rows skipped before the page.
func (q BookQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// BookPage is one page of a listing together with the total match count.
type BookPage struct {
	Books []domain.Book
	Total int
}

// Pages returns ceil(Total/limit).
func (p *BookPage) Pages(limit int) int {
	if limit <= 0 {
		return 0
	}
	return (p.Total + limit - 1) / limit
}

// BookStore reads the catalogue.
type BookStore interface {
	// List returns the page of books matching q and the total count of matches.
	// A page past the end yields no books and no error.
	List(ctx context.Context, q BookQuery) (*BookPage, error)

	// Get returns a single book. Returns ErrBookNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Book, error)
}

// LibraryStore persists user-book associations.
type LibraryStore interface {
	// Upsert adds the book to the user's library, or moves AddedAt if it is already there.
	Upsert(ctx context.Context, userID, bookID string, addedAt time.Time) (*domain.UserBook, error)

	// ListByUser returns the user's library entries joined with their books.
	ListByUser(ctx context.Context, userID string) ([]domain.LibraryEntry, error)
}
