package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-api-key"

// newTestClient starts a server running handler and returns a client bound to it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, testKey, WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		key     string
		wantErr error
	}{
		{name: "valid", url: "https://project.supabase.co", key: "k"},
		{name: "trailing slash", url: "https://project.supabase.co/", key: "k"},
		{name: "missing scheme", url: "project.supabase.co", key: "k", wantErr: ErrInvalidURL},
		{name: "empty url", url: "", key: "k", wantErr: ErrInvalidURL},
		{name: "missing key", url: "https://project.supabase.co", key: "", wantErr: ErrMissingAPIKey},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(tt.url, tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "project.supabase.co", c.baseURL.Host)
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("client key as bearer", func(t *testing.T) {
		req, err := c.newRequest(context.Background(), http.MethodGet, "/x", nil, nil, "")
		require.NoError(t, err)
		require.NoError(t, c.doJSON(req, nil))

		got := <-headers
		assert.Equal(t, testKey, got.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, got.Get("Authorization"))
		assert.Empty(t, got.Get("Content-Type"))
	})

	t.Run("caller token as bearer", func(t *testing.T) {
		req, err := c.newRequest(context.Background(), http.MethodPost, "/x", nil, map[string]string{"a": "b"}, "user-token")
		require.NoError(t, err)
		require.NoError(t, c.doJSON(req, nil))

		got := <-headers
		assert.Equal(t, testKey, got.Get("apikey"))
		assert.Equal(t, "Bearer user-token", got.Get("Authorization"))
		assert.Equal(t, "application/json", got.Get("Content-Type"))
	})
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   domain.UpstreamError
	}{
		{
			name:   "auth error with code",
			status: http.StatusBadRequest,
			body:   `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`,
			want:   domain.UpstreamError{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"},
		},
		{
			name:   "legacy auth error",
			status: http.StatusBadRequest,
			body:   `{"error":"invalid_grant","error_description":"Invalid Refresh Token"}`,
			want:   domain.UpstreamError{Status: 400, Message: "Invalid Refresh Token"},
		},
		{
			name:   "data API error",
			status: http.StatusBadRequest,
			body:   `{"code":"22P02","message":"invalid input syntax for type uuid","details":null,"hint":null}`,
			want:   domain.UpstreamError{Status: 400, Code: "22P02", Message: "invalid input syntax for type uuid"},
		},
		{
			name:   "data API error with details",
			status: http.StatusConflict,
			body:   `{"code":"23505","message":"duplicate key","details":"Key (id)=(1) already exists.","hint":"retry"}`,
			want: domain.UpstreamError{
				Status:  409,
				Code:    "23505",
				Message: "duplicate key",
				Details: "Key (id)=(1) already exists.",
				Hint:    "retry",
			},
		},
		{
			name:   "non-JSON body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   domain.UpstreamError{Status: 502, Message: "Bad Gateway"},
		},
		{
			name:   "empty body",
			status: http.StatusServiceUnavailable,
			body:   ``,
			want:   domain.UpstreamError{Status: 503, Message: "Service Unavailable"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req, err := c.newRequest(context.Background(), http.MethodGet, "/x", nil, nil, "")
			require.NoError(t, err)
			err = c.doJSON(req, nil)

			var upstream *domain.UpstreamError
			require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
			assert.Equal(t, tt.want, *upstream)
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL, testKey)
	require.NoError(t, err)
	srv.Close()

	req, err := c.newRequest(context.Background(), http.MethodGet, "/x", nil, nil, "")
	require.NoError(t, err)
	err = c.doJSON(req, nil)

	require.Error(t, err)
	var upstream *domain.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
