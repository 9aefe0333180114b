package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Defaults used by RateLimiter; tests shorten them.
var (
	window = time.Minute
	limit  = 60
)

// client is one caller's fixed window.
type client struct {
	windowStart time.Time
	count       int
}

// ipLimiter counts requests per client IP in fixed windows. Entries whose
// window has expired are evicted on the next sweep.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     int
	window    time.Duration
	lastSweep time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{clients: make(map[string]*client), limit: limit, window: window}
}

// allow records one request from ip at now and reports whether it is within the limit.
func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, cl := range l.clients {
			if now.Sub(cl.windowStart) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[ip]
	if !ok || now.Sub(cl.windowStart) > l.window {
		cl = &client{windowStart: now}
		l.clients[ip] = cl
	}
	cl.count++
	return cl.count <= l.limit
}

// RateLimiter is an in-memory middleware that limits requests per client IP.
//
// Behavior:
//   - Allows up to `limit` requests per `window` (default: 60 per minute).
//   - Each router gets its own counters.
//   - If limit exceeded, returns HTTP 429 with a dto.ErrorResponse.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
func RateLimiter() gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
