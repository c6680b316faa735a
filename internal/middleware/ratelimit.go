package middleware

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/internal/config"
)

type clientWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter applies fixed-window limits per client, with stricter
// limits for write and search routes. Health checks are never limited.
type RateLimiter struct {
	cfg    config.RateLimitConfig
	logger *zap.Logger

	mu      sync.Mutex
	windows map[string]*clientWindow

	stopCh chan struct{}
	once   sync.Once
}

func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 120
	}
	if cfg.WriteLimit <= 0 {
		cfg.WriteLimit = cfg.DefaultLimit
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = cfg.DefaultLimit
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		cfg:     cfg,
		logger:  logger,
		windows: make(map[string]*clientWindow),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the background janitor that evicts expired windows.
func (rl *RateLimiter) Start() {
	go func() {
		ticker := time.NewTicker(rl.cfg.CleanupPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup(time.Now())
			case <-rl.stopCh:
				return
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// Middleware wraps a handler with the rate limit check.
func (rl *RateLimiter) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	if !rl.cfg.Enabled {
		return next
	}
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		if path == "/health" {
			next(ctx)
			return
		}

		limit := rl.limitFor(string(ctx.Method()), path)
		key := rl.clientKey(ctx) + ":" + strconv.Itoa(limit)

		allowed, remaining, resetAt := rl.allow(key, limit, time.Now())

		ctx.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		ctx.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client", rl.clientKey(ctx)),
				zap.String("path", path))
			ctx.Response.Header.Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())+1))
			ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
			ctx.SetContentType("application/json")
			ctx.SetBodyString(`{"success":false,"error":{"code":"RATE_LIMITED","message":"too many requests"}}`)
			return
		}

		next(ctx)
	}
}

func (rl *RateLimiter) limitFor(method, path string) int {
	if strings.Contains(path, "/search") {
		return rl.cfg.SearchLimit
	}
	switch method {
	case fasthttp.MethodPost, fasthttp.MethodPut, fasthttp.MethodPatch, fasthttp.MethodDelete:
		return rl.cfg.WriteLimit
	}
	return rl.cfg.DefaultLimit
}

func (rl *RateLimiter) clientKey(ctx *fasthttp.RequestCtx) string {
	// The limiter runs before authentication; request headers are
	// client-controlled and must not name the client.
	return "ip:" + ctx.RemoteIP().String()
}

func (rl *RateLimiter) allow(key string, limit int, now time.Time) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	window, ok := rl.windows[key]
	if !ok || !now.Before(window.resetAt) {
		window = &clientWindow{resetAt: now.Add(rl.cfg.Window)}
		rl.windows[key] = window
	}

	if window.count >= limit {
		return false, 0, window.resetAt
	}
	window.count++
	return true, limit - window.count, window.resetAt
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, window := range rl.windows {
		if !now.Before(window.resetAt) {
			delete(rl.windows, key)
		}
	}
}
