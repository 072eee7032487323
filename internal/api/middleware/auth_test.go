package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/mocks"
	"github.com/booksaas/booksaas-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityEcho writes the identity ID and token seen by the handler.
func identityEcho(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	token, _ := shared.AccessTokenFromContext(r.Context())
	body := map[string]any{"authenticated": ok, "token": token}
	if ok {
		body["id"] = identity.ID
	}
	shared.RespondWithJSON(w, r, http.StatusOK, body)
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer", ""},
		{"Bearer abc", "abc"},
		{"Bearer abc extra", "abc"},
		{"Token abc", "abc"},
		{"Bearer  abc", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%q", tt.header), func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractToken(req))
		})
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		verifyFn    func(ctx context.Context, token string) (*domain.Identity, error)
		wantStatus  int
		wantError   string
		wantMessage string
		wantCalls   int
	}{
		{
			name:        "missing header",
			wantStatus:  http.StatusUnauthorized,
			wantError:   "Access token required",
			wantMessage: "Please provide a valid access token",
		},
		{
			name:        "scheme without token",
			header:      "Bearer",
			wantStatus:  http.StatusUnauthorized,
			wantError:   "Access token required",
			wantMessage: "Please provide a valid access token",
		},
		{
			name:   "valid token",
			header: "Bearer good",
			verifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
				return &domain.Identity{ID: "user-1"}, nil
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:   "rejected token",
			header: "Bearer expired",
			verifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
				return nil, fmt.Errorf("%w: rejected", auth.ErrInvalidToken)
			},
			wantStatus:  http.StatusForbidden,
			wantError:   "Invalid token",
			wantMessage: "The provided token is invalid or expired",
			wantCalls:   1,
		},
		{
			name:   "empty identity",
			header: "Bearer odd",
			verifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
				return &domain.Identity{}, nil
			},
			wantStatus:  http.StatusForbidden,
			wantError:   "Invalid token",
			wantMessage: "The provided token is invalid or expired",
			wantCalls:   1,
		},
		{
			name:   "verification failure",
			header: "Bearer good",
			verifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
				return nil, errors.New("connection refused")
			},
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Authentication error",
			wantMessage: "An error occurred during authentication",
			wantCalls:   1,
		},
		{
			name:   "verification panic",
			header: "Bearer good",
			verifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
				panic("boom")
			},
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Authentication error",
			wantMessage: "An error occurred during authentication",
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := &mocks.MockSessionVerifier{VerifyFn: tt.verifyFn}
			handler := NewAuthenticator(verifier, nil).Require(http.HandlerFunc(identityEcho))

			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Len(t, verifier.Calls(), tt.wantCalls)

			if tt.wantStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, true, body["authenticated"])
				assert.Equal(t, "user-1", body["id"])
				assert.Equal(t, "good", body["token"])
				return
			}

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		verifier  *mocks.MockSessionVerifier
		wantAuth  bool
		wantCalls int
	}{
		{
			name:     "no token",
			verifier: &mocks.MockSessionVerifier{Err: errors.New("must not be called")},
		},
		{
			name:      "valid token",
			header:    "Bearer good",
			verifier:  &mocks.MockSessionVerifier{Identity: &domain.Identity{ID: "user-1"}},
			wantAuth:  true,
			wantCalls: 1,
		},
		{
			name:      "rejected token",
			header:    "Bearer bad",
			verifier:  &mocks.MockSessionVerifier{Err: auth.ErrInvalidToken},
			wantCalls: 1,
		},
		{
			name:      "verification failure",
			header:    "Bearer good",
			verifier:  &mocks.MockSessionVerifier{Err: errors.New("timeout")},
			wantCalls: 1,
		},
		{
			name:   "verification panic",
			header: "Bearer good",
			verifier: &mocks.MockSessionVerifier{
				VerifyFn: func(ctx context.Context, token string) (*domain.Identity, error) {
					panic("boom")
				},
			},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewAuthenticator(tt.verifier, nil).Optional(http.HandlerFunc(identityEcho))

			req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Len(t, tt.verifier.Calls(), tt.wantCalls)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantAuth, body["authenticated"])
		})
	}
}

func TestNewAuthenticatorPanicsOnNilVerifier(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewAuthenticator(nil, nil) })
}
