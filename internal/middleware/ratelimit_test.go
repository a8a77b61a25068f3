package middleware

import (
	"testing"
	"time"

	"subpay/config"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(config.RateLimitConfig{Requests: 3, Window: time.Minute})
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewInMemoryRateLimiter(config.RateLimitConfig{Requests: 1, Window: time.Minute})
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewInMemoryRateLimiter(config.RateLimitConfig{Requests: 1, Window: 10 * time.Millisecond})
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}
