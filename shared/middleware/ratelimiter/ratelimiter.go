package ratelimiter

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
)

// maxIdentities bounds how many buckets are tracked at once. The least
// recently used are dropped first and start over full when seen again.
const maxIdentities = 100_000

// bucket implements a token bucket for one identity
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) allow(now time.Time, rate, capacity float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * rate
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// UserRateLimiter manages rate limiting for multiple identities. Buckets
// idle for longer than expiration are forgotten; expiration should be at
// least capacity/rate or a forgotten bucket comes back fuller than it would
// have refilled.
type UserRateLimiter struct {
	buckets  gcache.Cache
	rate     float64
	capacity float64
	now      func() time.Time
}

// New creates a limiter allowing rate requests per second with bursts of capacity.
func New(rate float64, capacity float64, expiration time.Duration) *UserRateLimiter {
	l := &UserRateLimiter{
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
	}
	l.buckets = gcache.New(maxIdentities).
		LRU().
		Expiration(expiration).
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return &bucket{tokens: l.capacity, lastRefill: l.now()}, nil
		}).
		Build()
	return l
}

// Allow checks if a request should be allowed for a given identity
func (l *UserRateLimiter) Allow(identity string) bool {
	v, err := l.buckets.Get(identity)
	if err != nil {
		return true
	}
	return v.(*bucket).allow(l.now(), l.rate, l.capacity)
}

// Len is the number of identities currently tracked.
func (l *UserRateLimiter) Len() int {
	return l.buckets.Len(true)
}

func OnceInSecond() *UserRateLimiter { return New(1, 1, time.Hour) }

// FivePerMinute allows a burst of five attempts, then one every twelve seconds.
func FivePerMinute() *UserRateLimiter { return New(5.0/60.0, 5, time.Hour) }

func Rps100() *UserRateLimiter { return New(100, 100, time.Hour) }
