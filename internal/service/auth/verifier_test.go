package auth

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, accessToken string) (*domain.Identity, error)

func (f providerFunc) GetUser(ctx context.Context, accessToken string) (*domain.Identity, error) {
	return f(ctx, accessToken)
}

func TestIdentityVerifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      *domain.Identity
		err         error
		wantInvalid bool
		wantErr     bool
	}{
		{name: "valid token", result: &domain.Identity{ID: "u1"}},
		{
			name:        "provider rejects token",
			err:         &domain.UpstreamError{Status: http.StatusUnauthorized, Message: "invalid JWT"},
			wantInvalid: true,
			wantErr:     true,
		},
		{
			name:        "forbidden",
			err:         &domain.UpstreamError{Status: http.StatusForbidden, Message: "bad_jwt"},
			wantInvalid: true,
			wantErr:     true,
		},
		{name: "empty identity", result: &domain.Identity{}, wantInvalid: true, wantErr: true},
		{
			name:        "identity without id in payload",
			err:         domain.ErrEmptyIdentity,
			wantInvalid: true,
			wantErr:     true,
		},
		{
			name:    "provider unavailable",
			err:     &domain.UpstreamError{Status: http.StatusServiceUnavailable, Message: "down"},
			wantErr: true,
		},
		{name: "transport failure", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewIdentityVerifier(providerFunc(func(context.Context, string) (*domain.Identity, error) {
				return tt.result, tt.err
			}), nil)

			identity, err := v.Verify(context.Background(), "token")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "u1", identity.ID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestIdentityVerifierMissingToken(t *testing.T) {
	t.Parallel()

	called := false
	v := NewIdentityVerifier(providerFunc(func(context.Context, string) (*domain.Identity, error) {
		called = true
		return nil, nil
	}), nil)

	_, err := v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.False(t, called)
}

func TestCachingVerifier(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	next := NewIdentityVerifier(providerFunc(func(_ context.Context, token string) (*domain.Identity, error) {
		calls.Add(1)
		if token == "bad" {
			return nil, &domain.UpstreamError{Status: http.StatusUnauthorized, Message: "invalid JWT"}
		}
		return &domain.Identity{ID: "u-" + token}, nil
	}), nil)

	cache := NewMemoryIdentityCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	v := NewCachingVerifier(next, cache, time.Minute, nil)

	t.Run("hit after first verification", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			identity, err := v.Verify(context.Background(), "good")
			require.NoError(t, err)
			assert.Equal(t, "u-good", identity.ID)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("rejections are not cached", func(t *testing.T) {
		before := calls.Load()
		for i := 0; i < 2; i++ {
			_, err := v.Verify(context.Background(), "bad")
			assert.ErrorIs(t, err, ErrInvalidToken)
		}
		assert.Equal(t, before+2, calls.Load())
	})

	t.Run("expired entry is refreshed", func(t *testing.T) {
		before := calls.Load()
		now = now.Add(2 * time.Minute)
		_, err := v.Verify(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, before+1, calls.Load())
	})
}

func TestCachingVerifierRevoke(t *testing.T) {
	t.Parallel()

	var signedOut atomic.Bool
	next := NewIdentityVerifier(providerFunc(func(context.Context, string) (*domain.Identity, error) {
		if signedOut.Load() {
			return nil, &domain.UpstreamError{Status: http.StatusForbidden, Message: "session not found"}
		}
		return &domain.Identity{ID: "u1"}, nil
	}), nil)

	v := NewCachingVerifier(next, NewMemoryIdentityCache(), time.Hour, nil)
	revoker, ok := v.(TokenRevoker)
	require.True(t, ok, "caching verifier should support revocation")

	identity, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)

	signedOut.Store(true)
	require.NoError(t, revoker.Revoke(context.Background(), "tok"))

	identity, err = v.Verify(context.Background(), "tok")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, revoker.Revoke(context.Background(), ""))
}

func TestMemoryIdentityCacheDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemoryIdentityCache()
	require.NoError(t, cache.SetIdentity(ctx, "k", &domain.Identity{ID: "u1"}, time.Minute))

	require.NoError(t, cache.DeleteIdentity(ctx, "k"))
	_, ok, err := cache.GetIdentity(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, cache.DeleteIdentity(ctx, "missing"))
}

func TestNewCachingVerifierDisabled(t *testing.T) {
	t.Parallel()

	next := NewIdentityVerifier(providerFunc(func(context.Context, string) (*domain.Identity, error) {
		return &domain.Identity{ID: "u1"}, nil
	}), nil)

	assert.Same(t, next, NewCachingVerifier(next, NewMemoryIdentityCache(), 0, nil))
	assert.Same(t, next, NewCachingVerifier(next, nil, time.Minute, nil))
}

func TestTokenKey(t *testing.T) {
	t.Parallel()

	key := TokenKey("token")
	assert.Len(t, key, 64)
	assert.Equal(t, key, TokenKey("token"))
	assert.NotEqual(t, key, TokenKey("token2"))
	assert.NotContains(t, key, "token")
}
