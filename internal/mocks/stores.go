package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/store"
)

// MockUserStore is an in-memory store.UserStore keyed by username.
type MockUserStore struct {
	GetByUsernameFn func(ctx context.Context, username string) (*domain.LocalUser, error)

	Users map[string]*domain.LocalUser
}

// NewMockUserStore creates a MockUserStore holding users.
func NewMockUserStore(users ...*domain.LocalUser) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.LocalUser)}
	for _, u := range users {
		m.Users[u.Username] = u
	}
	return m
}

// GetByUsername implements the store.UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.LocalUser, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	u, ok := m.Users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// MockBookStore is an in-memory store.BookStore. List pages over Books in order
// and ignores search and category unless ListFn is set.
type MockBookStore struct {
	ListFn func(ctx context.Context, q store.BookQuery) (*store.BookPage, error)
	GetFn  func(ctx context.Context, id string) (*domain.Book, error)

	Books []domain.Book

	// LastQuery records the most recent List argument.
	LastQuery store.BookQuery
}

// List implements the store.BookStore interface
func (m *MockBookStore) List(ctx context.Context, q store.BookQuery) (*store.BookPage, error) {
	m.LastQuery = q
	if m.ListFn != nil {
		return m.ListFn(ctx, q)
	}

	page := &store.BookPage{Books: []domain.Book{}, Total: len(m.Books)}
	start := q.Offset()
	if start >= len(m.Books) {
		return page, nil
	}
	end := start + q.Limit
	if end > len(m.Books) {
		end = len(m.Books)
	}
	page.Books = append(page.Books, m.Books[start:end]...)
	return page, nil
}

// Get implements the store.BookStore interface
func (m *MockBookStore) Get(ctx context.Context, id string) (*domain.Book, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	for i := range m.Books {
		if m.Books[i].ID == id {
			b := m.Books[i]
			return &b, nil
		}
	}
	return nil, store.ErrBookNotFound
}

// MockLibraryStore is an in-memory store.LibraryStore with upsert semantics on
// (user, book).
type MockLibraryStore struct {
	UpsertFn     func(ctx context.Context, userID, bookID string, addedAt time.Time) (*domain.UserBook, error)
	ListByUserFn func(ctx context.Context, userID string) ([]domain.LibraryEntry, error)

	mu      sync.Mutex
	entries []domain.UserBook
}

// Upsert implements the store.LibraryStore interface
func (m *MockLibraryStore) Upsert(
	ctx context.Context,
	userID, bookID string,
	addedAt time.Time,
) (*domain.UserBook, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, userID, bookID, addedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].UserID == userID && m.entries[i].BookID == bookID {
			m.entries[i].AddedAt = addedAt
			e := m.entries[i]
			return &e, nil
		}
	}
	e := domain.UserBook{UserID: userID, BookID: bookID, AddedAt: addedAt}
	m.entries = append(m.entries, e)
	return &e, nil
}

// ListByUser implements the store.LibraryStore interface
func (m *MockLibraryStore) ListByUser(ctx context.Context, userID string) ([]domain.LibraryEntry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.LibraryEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, domain.LibraryEntry{UserBook: e})
		}
	}
	return out, nil
}

// Entries returns every stored association.
func (m *MockLibraryStore) Entries() []domain.UserBook {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UserBook(nil), m.entries...)
}

// MockProfileStore is an in-memory store.ProfileStore.
type MockProfileStore struct {
	GetFn    func(ctx context.Context, id string) (*domain.Profile, error)
	UpsertFn func(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error)
	DeleteFn func(ctx context.Context, id string) error

	mu       sync.Mutex
	profiles map[string]*domain.Profile
}

// NewMockProfileStore creates a MockProfileStore holding profiles.
func NewMockProfileStore(profiles ...*domain.Profile) *MockProfileStore {
	m := &MockProfileStore{profiles: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

// Get implements the store.ProfileStore interface
func (m *MockProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

// Upsert implements the store.ProfileStore interface
func (m *MockProfileStore) Upsert(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profiles == nil {
		m.profiles = make(map[string]*domain.Profile)
	}
	p, ok := m.profiles[update.ID]
	if !ok {
		p = &domain.Profile{ID: update.ID}
		m.profiles[update.ID] = p
	}
	if update.FirstName != nil {
		p.FirstName = update.FirstName
	}
	if update.LastName != nil {
		p.LastName = update.LastName
	}
	if update.AvatarURL != nil {
		p.AvatarURL = update.AvatarURL
	}
	if update.Bio != nil {
		p.Bio = update.Bio
	}
	for _, column := range update.Clear {
		switch column {
		case domain.ProfileFirstName:
			p.FirstName = nil
		case domain.ProfileLastName:
			p.LastName = nil
		case domain.ProfileAvatarURL:
			p.AvatarURL = nil
		case domain.ProfileBio:
			p.Bio = nil
		}
	}
	fullName := update.FullName
	p.FullName = &fullName
	updatedAt := update.UpdatedAt
	p.UpdatedAt = &updatedAt

	copied := *p
	return &copied, nil
}

// Delete implements the store.ProfileStore interface
func (m *MockProfileStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, id)
	return nil
}

var (
	_ store.UserStore    = (*MockUserStore)(nil)
	_ store.BookStore    = (*MockBookStore)(nil)
	_ store.LibraryStore = (*MockLibraryStore)(nil)
	_ store.ProfileStore = (*MockProfileStore)(nil)
)
