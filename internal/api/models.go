package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// Request and response bodies. Required-field checks that have their own error
// response are done by the handlers; tags cover format and length.

// SignUpRequest is the payload of POST /api/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password"`
	Name     string `json:"name"     validate:"max=200"`
}

// SignInRequest is the payload of POST /api/auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the payload of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ResetPasswordRequest is the payload of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateProfileRequest is the payload of PUT /api/user/profile. Omitted fields
// keep their stored value; fields sent as null are cleared.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=2048,url"`
	Bio       *string `json:"bio"        validate:"omitempty,max=1000"`

	cleared []string
}

// UnmarshalJSON records which optional fields were sent as an explicit null.
func (r *UpdateProfileRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateProfileRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded.cleared = nil
	for _, column := range domain.ClearableProfileColumns {
		if value, ok := raw[column]; ok && string(bytes.TrimSpace(value)) == "null" {
			decoded.cleared = append(decoded.cleared, column)
		}
	}

	*r = UpdateProfileRequest(decoded)
	return nil
}

// Cleared returns the columns the request sets to null.
func (r *UpdateProfileRequest) Cleared() []string {
	return r.cleared
}

// DataEnvelope wraps auth responses in {"data": ...}.
type DataEnvelope struct {
	Data any `json:"data"`
}

// SignUpResponse is the body of a successful sign-up.
type SignUpResponse struct {
	Message string           `json:"message"`
	User    *domain.Identity `json:"user"`
	Session *domain.Session  `json:"session"`
}

// SignInResponse is the body of a successful username sign-in.
type SignInResponse struct {
	Message string                 `json:"message"`
	User    domain.PublicLocalUser `json:"user"`
	Token   string                 `json:"token"`
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RefreshResponse is the body of a successful token refresh.
type RefreshResponse struct {
	Message string          `json:"message"`
	Session *domain.Session `json:"session"`
}

// Pagination describes the page of a book listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// BookListResponse is the body of GET /api/books.
type BookListResponse struct {
	Books      []domain.Book `json:"books"`
	Pagination Pagination    `json:"pagination"`
}

// BookResponse is the body of GET /api/books/{id}.
type BookResponse struct {
	Book *domain.Book `json:"book"`
}

// AddToLibraryResponse is the body of POST /api/books/{id}/add-to-library.
type AddToLibraryResponse struct {
	Message  string           `json:"message"`
	UserBook *domain.UserBook `json:"userBook"`
}

// LibraryResponse is the body of GET /api/books/library/my-books.
type LibraryResponse struct {
	Library []domain.LibraryEntry `json:"library"`
}

// ProfileResponse is the body of GET /api/user/profile. Profile is null when the
// identity has no profile row.
type ProfileResponse struct {
	User    *domain.Identity `json:"user"`
	Profile *domain.Profile  `json:"profile"`
}

// UpdateProfileResponse is the body of PUT /api/user/profile.
type UpdateProfileResponse struct {
	Message string          `json:"message"`
	Profile *domain.Profile `json:"profile"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
