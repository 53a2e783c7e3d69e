package ratelimiter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucket_Allow(t *testing.T) {
	now := time.Now()

	t.Run("allows requests within the rate limit", func(t *testing.T) {
		b := &bucket{tokens: 10, lastRefill: now}
		assert.True(t, b.allow(now, 1, 10))
		assert.Equal(t, 9.0, b.tokens)
	})

	t.Run("denies requests when tokens are depleted", func(t *testing.T) {
		b := &bucket{tokens: 0, lastRefill: now}
		assert.False(t, b.allow(now, 1, 10))
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		b := &bucket{tokens: 0, lastRefill: now.Add(-2 * time.Second)}
		assert.True(t, b.allow(now, 1, 10))
		assert.InDelta(t, 1.0, b.tokens, 0.001)
	})

	t.Run("does not exceed capacity", func(t *testing.T) {
		b := &bucket{tokens: 9, lastRefill: now.Add(-2 * time.Second)}
		b.allow(now, 1, 10)
		assert.Equal(t, 9.0, b.tokens)
	})
}

func TestUserRateLimiter_PerIdentity(t *testing.T) {
	l := New(1.0/60.0, 2, time.Hour)
	fixed := time.Now()
	l.now = func() time.Time { return fixed }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// a different identity has its own bucket
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Len())

	fixed = fixed.Add(time.Minute)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestUserRateLimiter_Concurrent(t *testing.T) {
	l := New(0.001, 10, time.Hour)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("same") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}
