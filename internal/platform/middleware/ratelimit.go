package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// KeyFunc selects the bucket for a request; defaults to the client IP.
	KeyFunc func(c echo.Context) string
	// IdleTTL drops buckets that have not been touched for this long.
	// Zero keeps them for ten minutes.
	IdleTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// LoginRateLimitConfig limits login attempts per client IP. Non-positive
// values fall back to one attempt per second with a burst of five.
func LoginRateLimitConfig(rps float64, burst int) RateLimitConfig {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}
	return RateLimitConfig{RequestsPerSecond: rps, BurstSize: burst}
}

type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	last     time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	return newTokenBucketAt(rate, burst, time.Now())
}

func newTokenBucketAt(rate float64, burst int, now time.Time) *tokenBucket {
	return &tokenBucket{tokens: float64(burst), capacity: float64(burst), rate: rate, last: now}
}

func (b *tokenBucket) allow() bool {
	return b.allowAt(time.Now())
}

func (b *tokenBucket) allowAt(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter is the number of whole seconds until the next token.
func (b *tokenBucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	wait := int(math.Ceil((1 - b.tokens) / b.rate))
	if wait < 1 {
		wait = 1
	}
	return wait
}

type rateLimiterStore struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	config    RateLimitConfig
	lastSweep time.Time
}

func newRateLimiterStore(cfg RateLimitConfig) *rateLimiterStore {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &rateLimiterStore{buckets: make(map[string]*tokenBucket), config: cfg, lastSweep: cfg.Now()}
}

// getBucket returns the bucket for key, creating it full. Idle buckets are
// swept at most once per IdleTTL.
func (s *rateLimiterStore) getBucket(key string) *tokenBucket {
	now := s.config.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.config.IdleTTL {
		s.sweep(now)
	}
	b, ok := s.buckets[key]
	if !ok {
		b = newTokenBucketAt(s.config.RequestsPerSecond, s.config.BurstSize, now)
		s.buckets[key] = b
	}
	return b
}

func (s *rateLimiterStore) sweep(now time.Time) {
	for key, b := range s.buckets {
		b.mu.Lock()
		idle := now.Sub(b.last)
		b.mu.Unlock()
		if idle >= s.config.IdleTTL {
			delete(s.buckets, key)
		}
	}
	s.lastSweep = now
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// RateLimit rejects requests over the per-key token bucket with 429 and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newRateLimiterStore(cfg)
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)

			bucket := store.getBucket(keyFunc(c))
			if !bucket.allowAt(store.config.Now()) {
				h.Set("Retry-After", strconv.Itoa(bucket.retryAfter()))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
			}
			return next(c)
		}
	}
}
