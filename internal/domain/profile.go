package domain

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Optional profile columns an update may set to null.
const (
	ProfileFirstName = "first_name"
	ProfileLastName  = "last_name"
	ProfileAvatarURL = "avatar_url"
	ProfileBio       = "bio"
)

// ClearableProfileColumns lists the optional profile columns in storage order.
var ClearableProfileColumns = []string{ProfileFirstName, ProfileLastName, ProfileAvatarURL, ProfileBio}

// Profile holds optional display data for an Identity, keyed by the identity ID.
type Profile struct {
	ID        string     `json:"id"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	FullName  *string    `json:"full_name"`
	AvatarURL *string    `json:"avatar_url"`
	Bio       *string    `json:"bio"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ProfileUpdate is an upsert of a Profile. Nil fields are left untouched on an
// existing row unless their column is listed in Clear, in which case it is set
// to null. FullName and UpdatedAt are always written.
type ProfileUpdate struct {
	ID        string    `json:"id"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Clear     []string  `json:"-"`
}

// Clears reports whether column is set to null by the update.
func (u *ProfileUpdate) Clears(column string) bool {
	return slices.Contains(u.Clear, column)
}

// MarshalJSON writes cleared columns as explicit nulls.
func (u ProfileUpdate) MarshalJSON() ([]byte, error) {
	type plain ProfileUpdate
	data, err := json.Marshal(plain(u))
	if err != nil || len(u.Clear) == 0 {
		return data, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, column := range u.Clear {
		fields[column] = json.RawMessage("null")
	}
	return json.Marshal(fields)
}

// NewProfileUpdate builds an upsert for id, deriving FullName from the supplied names.
func NewProfileUpdate(id string, firstName, lastName, avatarURL, bio *string, now time.Time) *ProfileUpdate {
	return &ProfileUpdate{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		FullName:  BuildFullName(firstName, lastName),
		AvatarURL: avatarURL,
		Bio:       bio,
		UpdatedAt: now.UTC(),
	}
}

// BuildFullName joins first and last name with a single space and trims the result.
// A missing part contributes an empty string.
func BuildFullName(firstName, lastName *string) string {
	return strings.TrimSpace(deref(firstName) + " " + deref(lastName))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
