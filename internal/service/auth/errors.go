package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the auth provider rejected the access token
	// or the token format is invalid.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates a locally signed token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPasswordMismatch indicates the supplied password does not match the stored one
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrSigningKeyMissing indicates that no signing secret is configured
	ErrSigningKeyMissing = errors.New("token signing secret is not configured")
)
