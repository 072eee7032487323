package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a request or entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when an operation needs an authenticated identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// HTTPError is the closed set of errors that carry their own response shape.
// Only *UpstreamError, *ValidationError and *StatusError implement it.
type HTTPError interface {
	error
	httpError()
}

// UpstreamError is a failure reported by the External Service (auth or data API).
// Code is the service's machine-readable error code and may be empty.
type UpstreamError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *UpstreamError) httpError() {}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
}

// ValidationError reports malformed input. Details is passed through to the client.
type ValidationError struct {
	Details any
	Err     error
}

func (e *ValidationError) httpError() {}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
	}
	return ErrValidation.Error()
}

// Unwrap returns ErrValidation so callers can match with errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// NewValidationError creates a ValidationError carrying details for the response.
func NewValidationError(details any, err error) *ValidationError {
	return &ValidationError{Details: details, Err: err}
}

// StatusError is an error with an explicit HTTP status. Message is the short
// machine-facing text ("Access token required"); Detail is the optional human text.
type StatusError struct {
	Status  int
	Message string
	Detail  string
	Err     error
}

func (e *StatusError) httpError() {}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError creates a StatusError.
func NewStatusError(status int, message, detail string) *StatusError {
	return &StatusError{Status: status, Message: message, Detail: detail}
}

// WithCause returns a copy of e wrapping err.
func (e *StatusError) WithCause(err error) *StatusError {
	c := *e
	c.Err = err
	return &c
}
