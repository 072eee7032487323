package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
)

// IdentityCache stores verified identities keyed by TokenKey.
type IdentityCache interface {
	GetIdentity(ctx context.Context, key string) (*domain.Identity, bool, error)
	SetIdentity(ctx context.Context, key string, identity *domain.Identity, ttl time.Duration) error
	DeleteIdentity(ctx context.Context, key string) error
}

// TokenRevoker drops any verification result retained for an access token, so
// that a signed-out token is checked with the provider again on its next use.
type TokenRevoker interface {
	Revoke(ctx context.Context, accessToken string) error
}

// TokenKey derives the cache key of an access token. Raw tokens are never stored.
func TokenKey(accessToken string) string {
	digest := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(digest[:])
}

type cachingVerifier struct {
	next   SessionVerifier
	cache  IdentityCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachingVerifier wraps next so that successful verifications are reused for ttl.
// Rejections are never cached. A nil cache or non-positive ttl returns next unchanged.
func NewCachingVerifier(next SessionVerifier, cache IdentityCache, ttl time.Duration, logger *slog.Logger) SessionVerifier {
	if cache == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cachingVerifier{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "identity_cache")),
	}
}

// Verify implements SessionVerifier.
func (v *cachingVerifier) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	key := TokenKey(accessToken)

	identity, ok, err := v.cache.GetIdentity(ctx, key)
	if err != nil {
		v.logger.WarnContext(ctx, "identity cache read failed", slog.Any("error", err))
	} else if ok {
		return identity, nil
	}

	identity, err = v.next.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if err := v.cache.SetIdentity(ctx, key, identity, v.ttl); err != nil {
		v.logger.WarnContext(ctx, "identity cache write failed", slog.Any("error", err))
	}
	return identity, nil
}

// Revoke implements TokenRevoker.
func (v *cachingVerifier) Revoke(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return v.cache.DeleteIdentity(ctx, TokenKey(accessToken))
}

var _ TokenRevoker = (*cachingVerifier)(nil)

// MemoryIdentityCache is a process-local IdentityCache.
type MemoryIdentityCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	identity  *domain.Identity
	expiresAt time.Time
}

// NewMemoryIdentityCache creates an empty in-memory cache.
func NewMemoryIdentityCache() *MemoryIdentityCache {
	return &MemoryIdentityCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetIdentity implements IdentityCache.
func (c *MemoryIdentityCache) GetIdentity(_ context.Context, key string) (*domain.Identity, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.identity, true, nil
}

// SetIdentity implements IdentityCache. Expired entries are swept on write.
func (c *MemoryIdentityCache) SetIdentity(_ context.Context, key string, identity *domain.Identity, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{identity: identity, expiresAt: now.Add(ttl)}
	return nil
}

// DeleteIdentity implements IdentityCache.
func (c *MemoryIdentityCache) DeleteIdentity(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
