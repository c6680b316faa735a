package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/mrson-dev/crm-ju-ai/internal/config"
)

func newTestLimiter(limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(config.RateLimitConfig{
		Enabled:      true,
		Window:       window,
		DefaultLimit: limit,
		WriteLimit:   limit,
		SearchLimit:  limit,
	}, nil)
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := newTestLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		allowed, _, _ := rl.allow("user:abc:3", 3, now)
		require.True(t, allowed)
	}

	allowed, remaining, _ := rl.allow("user:abc:3", 3, now)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	now := time.Now()

	allowed, _, _ := rl.allow("user:abc:1", 1, now)
	require.True(t, allowed)

	allowed, _, _ = rl.allow("user:abc:1", 1, now)
	require.False(t, allowed)

	allowed, _, _ = rl.allow("user:abc:1", 1, now.Add(2*time.Minute))
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	now := time.Now()

	allowed, _, _ := rl.allow("user:alice:1", 1, now)
	require.True(t, allowed)

	allowed, _, _ = rl.allow("user:bob:1", 1, now)
	assert.True(t, allowed)
}

func TestRateLimiterLimitFor(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:      true,
		Window:       time.Minute,
		DefaultLimit: 100,
		WriteLimit:   50,
		SearchLimit:  20,
	}, nil)

	assert.Equal(t, 100, rl.limitFor(fasthttp.MethodGet, "/api/v1/clients"))
	assert.Equal(t, 50, rl.limitFor(fasthttp.MethodPost, "/api/v1/clients"))
	assert.Equal(t, 50, rl.limitFor(fasthttp.MethodDelete, "/api/v1/clients/1"))
	assert.Equal(t, 20, rl.limitFor(fasthttp.MethodGet, "/api/v1/clients/search"))
}

func TestRateLimiterSkipsHealth(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	var called int
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) { called++ })

	for i := 0; i < 5; i++ {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/health")
		handler(&ctx)
	}
	assert.Equal(t, 5, called)
}

func TestRateLimiterRejectsWith429(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	var first fasthttp.RequestCtx
	first.Request.SetRequestURI("/api/v1/tasks")
	handler(&first)
	require.Equal(t, fasthttp.StatusOK, first.Response.StatusCode())

	var second fasthttp.RequestCtx
	second.Request.SetRequestURI("/api/v1/tasks")
	handler(&second)
	assert.Equal(t, fasthttp.StatusTooManyRequests, second.Response.StatusCode())
	assert.NotEmpty(t, second.Response.Header.Peek("Retry-After"))
}

func TestRateLimiterIgnoresIdentityHeaders(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	// Forged identity headers from one source must all land in the same
	// window: only the first request gets through at limit 1.
	var allowed int
	for _, spoofed := range []string{"u1", "u2", "u3", "u4"} {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/api/v1/tasks")
		ctx.Request.Header.Set("X-User-ID", spoofed)
		handler(&ctx)
		if ctx.Response.StatusCode() == fasthttp.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false}, nil)
	var called bool
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/tasks")
	handler(&ctx)
	assert.True(t, called)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	now := time.Now()

	rl.allow("user:a:1", 1, now)
	rl.allow("user:b:1", 1, now)
	require.Len(t, rl.windows, 2)

	rl.cleanup(now.Add(2 * time.Minute))
	assert.Empty(t, rl.windows)
}
