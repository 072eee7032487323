package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/booksaas/booksaas-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a stored password with its possible plaintext equivalent.
	// Returns nil on success, or an error wrapping ErrPasswordMismatch on mismatch.
	Compare(storedPassword, password string) error
}

// NewPasswordVerifier returns the verifier for the configured storage scheme.
func NewPasswordVerifier(scheme string) (PasswordVerifier, error) {
	switch scheme {
	case config.PasswordSchemeBcrypt:
		return NewBcryptVerifier(), nil
	case config.PasswordSchemePlaintext, "":
		return NewPlaintextVerifier(), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%w: %v", ErrPasswordMismatch, err)
	}
	return err
}

// PlaintextVerifier compares a stored password that is kept in the clear.
// Deployments should migrate to bcrypt; see cmd/hash-generator.
type PlaintextVerifier struct{}

// NewPlaintextVerifier creates a new PlaintextVerifier.
func NewPlaintextVerifier() *PlaintextVerifier {
	return &PlaintextVerifier{}
}

// Compare implements the PasswordVerifier interface with a constant-time comparison.
func (v *PlaintextVerifier) Compare(storedPassword, password string) error {
	if subtle.ConstantTimeCompare([]byte(storedPassword), []byte(password)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
