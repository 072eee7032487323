package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
)

const internalServerError = "Internal Server Error"

type codeMapping struct {
	status  int
	message string
}

// upstreamCodes maps service error codes to a fixed response, regardless of the
// service's own message. Codes not listed here yield 400 with that message.
var upstreamCodes = map[string]codeMapping{
	"invalid_credentials": {http.StatusUnauthorized, "Invalid email or password"},
	"email_not_confirmed": {http.StatusBadRequest, "Please confirm your email address"},
	"signup_disabled":     {http.StatusForbidden, "Sign up is currently disabled"},
	"user_already_exists": {http.StatusConflict, "User already registered"},
}

// ErrorWriter writes every handler error through NormalizeError.
type ErrorWriter struct {
	development bool
}

// NewErrorWriter creates an ErrorWriter. In development mode responses carry the
// error chain in "stack".
func NewErrorWriter(development bool) *ErrorWriter {
	return &ErrorWriter{development: development}
}

// Write normalizes err, logs it and sends the error envelope.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error, opts ...shared.ResponseOption) {
	status, body := NormalizeError(err, e.development)
	shared.RespondWithErrorAndLog(w, r, status, body, err, opts...)
}

// NormalizeError maps err to a status code and the error envelope.
//
//   - *domain.ValidationError: 400 "Validation Error" with details
//   - *domain.StatusError: its own status, message and detail
//   - *domain.UpstreamError with a code: the code table, else 400 with its message
//   - *domain.UpstreamError without a code: its status and message
//   - anything else: 500 "Internal Server Error"
func NormalizeError(err error, development bool) (int, shared.ErrorResponse) {
	status, body := classify(err)
	if development && err != nil {
		body.Stack = errorStack(err)
	}
	return status, body
}

func classify(err error) (int, shared.ErrorResponse) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, shared.ErrorResponse{
			Error:   "Validation Error",
			Details: validationErr.Details,
		}
	}

	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		return status, shared.ErrorResponse{Error: statusErr.Message, Message: statusErr.Detail}
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.Code != "" {
			if m, ok := upstreamCodes[upstreamErr.Code]; ok {
				return m.status, shared.ErrorResponse{Error: m.message}
			}
			return http.StatusBadRequest, shared.ErrorResponse{Error: messageOr(upstreamErr.Message)}
		}

		status := upstreamErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		return status, shared.ErrorResponse{Error: messageOr(upstreamErr.Message)}
	}

	return http.StatusInternalServerError, shared.ErrorResponse{Error: internalServerError}
}

func messageOr(message string) string {
	if message == "" {
		return internalServerError
	}
	return message
}

// errorStack renders the wrap chain of err, outermost first, one level per line.
func errorStack(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%T: %s", e, e.Error())
	}
	return b.String()
}
