package domain

import "time"

// Book is a catalogue entry. It is read-only from this system's perspective.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// UserBook associates a book with a user's library. The (UserID, BookID) pair is unique;
// adding the same book again only moves AddedAt.
type UserBook struct {
	UserID  string    `json:"user_id"`
	BookID  string    `json:"book_id"`
	AddedAt time.Time `json:"added_at"`
}

// LibraryEntry is a UserBook joined with its book row. The "books" key matches the
// embedded-resource name of the data API.
type LibraryEntry struct {
	UserBook
	Book *Book `json:"books"`
}
