package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/mocks"
	"github.com/booksaas/booksaas-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBooks(n int) []domain.Book {
	books := make([]domain.Book, n)
	for i := range books {
		books[i] = domain.Book{ID: fmt.Sprintf("book-%02d", i+1), Title: fmt.Sprintf("Title %d", i+1), Author: "Author"}
	}
	return books
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		books := &mocks.MockBookStore{Books: makeBooks(3)}
		h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, store.BookQuery{Page: 1, Limit: 10}, books.LastQuery)

		body := decodeBody(t, rr)
		assert.Len(t, body["books"], 3)
		assert.Equal(t, map[string]any{"page": 1.0, "limit": 10.0, "total": 3.0, "pages": 1.0}, body["pagination"])
	})

	t.Run("last page of 23", func(t *testing.T) {
		t.Parallel()

		books := &mocks.MockBookStore{Books: makeBooks(23)}
		h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?page=3&limit=10", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 20, books.LastQuery.Offset())

		body := decodeBody(t, rr)
		assert.Len(t, body["books"], 3)
		assert.Equal(t, map[string]any{"page": 3.0, "limit": 10.0, "total": 23.0, "pages": 3.0}, body["pagination"])
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		t.Parallel()

		h := NewBookHandler(&mocks.MockBookStore{Books: makeBooks(23)}, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?page=9", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, []any{}, body["books"])
		assert.Equal(t, 23.0, body["pagination"].(map[string]any)["total"])
	})

	t.Run("search and category are forwarded", func(t *testing.T) {
		t.Parallel()

		books := &mocks.MockBookStore{}
		h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?search=dune&category=scifi", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "dune", books.LastQuery.Search)
		assert.Equal(t, "scifi", books.LastQuery.Category)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		t.Parallel()

		for _, query := range []string{"page=abc", "page=0", "limit=-5", "limit=1.5"} {
			books := &mocks.MockBookStore{
				ListFn: func(context.Context, store.BookQuery) (*store.BookPage, error) {
					t.Fatal("store must not be called")
					return nil, nil
				},
			}
			h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code, query)
			resp := decodeError(t, rr)
			assert.Equal(t, "Validation Error", resp.Error)
			assert.NotEmpty(t, resp.Details)
		}
	})

	t.Run("pagination caps", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			query   string
			field   string
			message string
		}{
			{"limit=101", "limit", "must be at most 100"},
			{"page=1000001", "page", "must be at most 1000000"},
			{"page=9223372036854775807&limit=100", "page", "must be at most 1000000"},
			{"limit=9223372036854775808", "limit", "must be a positive integer"},
		}

		for _, tt := range tests {
			books := &mocks.MockBookStore{}
			h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?"+tt.query, nil))

			require.Equal(t, http.StatusBadRequest, rr.Code, tt.query)
			resp := decodeError(t, rr)
			assert.Equal(t, []any{map[string]any{"field": tt.field, "message": tt.message}}, resp.Details, tt.query)
			assert.Equal(t, store.BookQuery{}, books.LastQuery, tt.query)
		}
	})

	t.Run("largest page and limit", func(t *testing.T) {
		t.Parallel()

		books := &mocks.MockBookStore{Books: makeBooks(3)}
		h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/books?page=1000000&limit=100", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 99_999_900, books.LastQuery.Offset())
		assert.Empty(t, decodeBody(t, rr)["books"])
	})
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	h := NewBookHandler(&mocks.MockBookStore{Books: makeBooks(2)}, &mocks.MockLibraryStore{}, NewErrorWriter(false))

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/books/book-02", nil), "id", "book-02"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "book-02", decodeBody(t, rr)["book"].(map[string]any)["id"])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/books/missing", nil), "id", "missing"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "Book not found", resp.Error)
		assert.Equal(t, "The requested book does not exist", resp.Message)
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		books := &mocks.MockBookStore{
			GetFn: func(context.Context, string) (*domain.Book, error) {
				return nil, &domain.UpstreamError{Status: 400, Code: "22P02", Message: "invalid input syntax for type uuid"}
			},
		}
		h := NewBookHandler(books, &mocks.MockLibraryStore{}, NewErrorWriter(false))

		rr := httptest.NewRecorder()
		h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/books/x", nil), "id", "x"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid input syntax for type uuid", decodeError(t, rr).Error)
	})
}

func TestAddToLibrary(t *testing.T) {
	t.Parallel()

	t.Run("repeated add moves added_at", func(t *testing.T) {
		t.Parallel()

		library := &mocks.MockLibraryStore{}
		h := NewBookHandler(&mocks.MockBookStore{}, library, NewErrorWriter(false))

		first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		second := first.Add(time.Hour)

		for _, now := range []time.Time{first, second} {
			h.timeFunc = func() time.Time { return now }
			req := authenticated(httptest.NewRequest(http.MethodPost, "/api/books/book-01/add-to-library", nil), "t")
			rr := httptest.NewRecorder()
			h.AddToLibrary(rr, withURLParam(req, "id", "book-01"))

			require.Equal(t, http.StatusOK, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, "Book added to library", body["message"])
			userBook := body["userBook"].(map[string]any)
			assert.Equal(t, testIdentity.ID, userBook["user_id"])
			assert.Equal(t, "book-01", userBook["book_id"])
			assert.Equal(t, now.Format(time.RFC3339), userBook["added_at"])
		}

		entries := library.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, second, entries[0].AddedAt)
	})

	t.Run("invalid book", func(t *testing.T) {
		t.Parallel()

		library := &mocks.MockLibraryStore{
			UpsertFn: func(context.Context, string, string, time.Time) (*domain.UserBook, error) {
				return nil, store.NewStoreError("user_book", "upsert", store.ErrInvalidEntity)
			},
		}
		h := NewBookHandler(&mocks.MockBookStore{}, library, NewErrorWriter(false))

		req := authenticated(httptest.NewRequest(http.MethodPost, "/api/books/nope/add-to-library", nil), "t")
		rr := httptest.NewRecorder()
		h.AddToLibrary(rr, withURLParam(req, "id", "nope"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid book", decodeError(t, rr).Error)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		h := NewBookHandler(&mocks.MockBookStore{}, &mocks.MockLibraryStore{}, NewErrorWriter(false))
		rr := httptest.NewRecorder()
		h.AddToLibrary(rr, httptest.NewRequest(http.MethodPost, "/api/books/b/add-to-library", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMyLibrary(t *testing.T) {
	t.Parallel()

	library := &mocks.MockLibraryStore{}
	ctx := context.Background()
	now := time.Now()
	_, err := library.Upsert(ctx, testIdentity.ID, "book-01", now)
	require.NoError(t, err)
	_, err = library.Upsert(ctx, "someone-else", "book-02", now)
	require.NoError(t, err)

	h := NewBookHandler(&mocks.MockBookStore{}, library, NewErrorWriter(false))

	rr := httptest.NewRecorder()
	h.MyLibrary(rr, authenticated(httptest.NewRequest(http.MethodGet, "/api/books/library/my-books", nil), "t"))

	require.Equal(t, http.StatusOK, rr.Code)
	entries := decodeBody(t, rr)["library"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "book-01", entries[0].(map[string]any)["book_id"])

	t.Run("empty library is an empty array", func(t *testing.T) {
		t.Parallel()

		h := NewBookHandler(&mocks.MockBookStore{}, &mocks.MockLibraryStore{}, NewErrorWriter(false))
		rr := httptest.NewRecorder()
		h.MyLibrary(rr, authenticated(httptest.NewRequest(http.MethodGet, "/api/books/library/my-books", nil), "t"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []any{}, decodeBody(t, rr)["library"])
	})
}
