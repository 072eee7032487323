package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/platform/logger"
	"golang.org/x/time/rate"
)

// RateLimitMessage is the error text of a 429 response.
const RateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimiter decides whether a client may make another request.
type RateLimiter interface {
	// Allow reports whether key may proceed. When it may not, retryAfter is the
	// time until it may.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// MemoryRateLimiter is a per-key token bucket held in process. Each key may make
// requests per window with a burst of requests.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

// NewMemoryRateLimiter creates a limiter allowing requests per window for each key.
func NewMemoryRateLimiter(requests int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		ttl:      window,
		now:      time.Now,
	}
}

// Allow implements RateLimiter.
func (m *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// idle keys have a full bucket again, so they can be dropped
	if now.Sub(m.lastSweep) > m.ttl {
		for k, v := range m.limiters {
			if now.Sub(v.lastHit) > m.ttl {
				delete(m.limiters, k)
			}
		}
		m.lastSweep = now
	}

	cl, ok := m.limiters[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = cl
	}
	cl.lastHit = now

	res := cl.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, m.ttl, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// WindowCounter counts hits on key within a fixed window shared across instances.
type WindowCounter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// WindowRateLimiter allows requests per window for each key using a shared counter.
type WindowRateLimiter struct {
	counter  WindowCounter
	requests int64
	window   time.Duration
}

// NewWindowRateLimiter creates a fixed-window limiter over counter.
func NewWindowRateLimiter(counter WindowCounter, requests int, window time.Duration) *WindowRateLimiter {
	if counter == nil {
		panic("counter cannot be nil")
	}
	return &WindowRateLimiter{counter: counter, requests: int64(requests), window: window}
}

// Allow implements RateLimiter.
func (l *WindowRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	count, ttl, err := l.counter.Increment(ctx, key, l.window)
	if err != nil {
		return false, 0, err
	}
	if count > l.requests {
		if ttl <= 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// NewRateLimitMiddleware rejects clients that exceed limiter with 429. Clients are
// keyed by IP; when the limiter itself fails the request is let through.
func NewRateLimitMiddleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter, err := limiter.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.FromContextOrDefault(r.Context(), nil).WarnContext(r.Context(),
					"rate limiter unavailable, allowing request",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					shared.ErrorResponse{Error: RateLimitMessage}, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the host part of the request's remote address. chi's RealIP
// middleware, when installed, has already replaced it with the forwarded address.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	if addr == "" {
		return "unknown"
	}
	return addr
}
