package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrEmptyIdentity is returned when the identity payload has no id.
var ErrEmptyIdentity = errors.New("identity has no id")

// Identity is a user record resolved by the External Service's auth provider.
// The service owns the record; this system only references it by ID.
//
// The original JSON document is retained so that the full provider record is
// returned to clients unchanged.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`

	raw json.RawMessage
}

// ParseIdentity decodes a provider user document, keeping the raw bytes.
func ParseIdentity(data []byte) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, err
	}
	if id.ID == "" {
		return nil, ErrEmptyIdentity
	}
	return &id, nil
}

// UnmarshalJSON implements json.Unmarshaler and keeps the raw document.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type plain Identity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Identity(p)
	i.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the provider document as received when available.
func (i Identity) MarshalJSON() ([]byte, error) {
	if len(i.raw) > 0 {
		return i.raw, nil
	}
	type plain Identity
	return json.Marshal(plain(i))
}

// Session is a provider-issued session for an Identity.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	RefreshToken string    `json:"refresh_token"`
	User         *Identity `json:"user,omitempty"`
}

// SignUpResult is the outcome of a provider sign-up. Session is nil when the
// provider requires email confirmation before issuing one.
type SignUpResult struct {
	User    *Identity `json:"user"`
	Session *Session  `json:"session"`
}

// LocalUser is a row of the local "users" relation used by username sign-in.
// It is distinct from Identity and never shared with the auth provider.
type LocalUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// PublicLocalUser is the part of a LocalUser that may be returned to clients.
type PublicLocalUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public returns the client-safe view of u.
func (u *LocalUser) Public() PublicLocalUser {
	return PublicLocalUser{ID: u.ID, Username: u.Username}
}
