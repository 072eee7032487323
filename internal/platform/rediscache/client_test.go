package rediscache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_URL or skips the test.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := os.Getenv("REDIS_URL")
	if dsn == "" {
		t.Skip("REDIS_URL not set; skipping redis test")
	}

	c, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestIdentityRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := uuid.NewString()

	_, ok, err := c.GetIdentity(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	identity, err := domain.ParseIdentity([]byte(`{"id":"u1","email":"a@b.c","aud":"authenticated"}`))
	require.NoError(t, err)
	require.NoError(t, c.SetIdentity(ctx, key, identity, time.Minute))

	got, ok, err := c.GetIdentity(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "a@b.c", got.Email)

	require.NoError(t, c.DeleteIdentity(ctx, key))
	_, ok, err = c.GetIdentity(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.DeleteIdentity(ctx, key))
}

func TestIncrement(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := uuid.NewString()

	n, ttl, err := c.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.LessOrEqual(t, ttl, time.Minute)

	n, _, err = c.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
