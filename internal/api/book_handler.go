package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
	"github.com/go-chi/chi/v5"
)

// BookHandler handles the /api/books routes.
type BookHandler struct {
	bookStore    store.BookStore
	libraryStore store.LibraryStore
	errors       *ErrorWriter
	timeFunc     func() time.Time
}

// NewBookHandler creates a new BookHandler with the given dependencies.
func NewBookHandler(bookStore store.BookStore, libraryStore store.LibraryStore, errs *ErrorWriter) *BookHandler {
	return &BookHandler{
		bookStore:    bookStore,
		libraryStore: libraryStore,
		errors:       errs,
		timeFunc:     time.Now,
	}
}

// List handles GET /api/books?page&limit&search&category.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	var fieldErrs []shared.FieldError
	page, fe := positiveIntQuery(r, "page", store.DefaultPage, store.MaxPage)
	if fe != nil {
		fieldErrs = append(fieldErrs, *fe)
	}
	limit, fe := positiveIntQuery(r, "limit", store.DefaultLimit, store.MaxLimit)
	if fe != nil {
		fieldErrs = append(fieldErrs, *fe)
	}
	if len(fieldErrs) > 0 {
		h.errors.Write(w, r, domain.NewValidationError(fieldErrs, errors.New("invalid pagination")))
		return
	}

	q := store.BookQuery{
		Page:     page,
		Limit:    limit,
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	result, err := h.bookStore.List(r.Context(), q)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	books := result.Books
	if books == nil {
		books = []domain.Book{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BookListResponse{
		Books: books,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: result.Total,
			Pages: result.Pages(limit),
		},
	})
}

// Get handles GET /api/books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookStore.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				"Book not found", "The requested book does not exist")
			return
		}
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookResponse{Book: book})
}

// AddToLibrary handles POST /api/books/{id}/add-to-library. Adding a book that is
// already in the library only moves its added_at.
func (h *BookHandler) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	bookID := chi.URLParam(r, "id")
	userBook, err := h.libraryStore.Upsert(r.Context(), identity.ID, bookID, h.timeFunc().UTC())
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			h.errors.Write(w, r, domain.NewStatusError(http.StatusBadRequest,
				"Invalid book", "The book does not exist or its id is malformed").WithCause(err))
			return
		}
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AddToLibraryResponse{
		Message:  "Book added to library",
		UserBook: userBook,
	})
}

// MyLibrary handles GET /api/books/library/my-books. Only the caller's entries are
// returned.
func (h *BookHandler) MyLibrary(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	entries, err := h.libraryStore.ListByUser(r.Context(), identity.ID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LibraryResponse{Library: entries})
}
