package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
	now      func() time.Time
}

// NewRateLimiter allows perMinute requests per IP and minute with a burst of half of that.
func NewRateLimiter(perMinute int) *RateLimiter {
	perMinute = max(perMinute, 1)
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*clientLimiter{},
		now:      time.Now,
	}
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanupLocked(now)

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.expires = now.Add(limiterIdleTTL)
	return cl.limiter.AllowN(now, 1)
}

func (l *RateLimiter) cleanupLocked(now time.Time) {
	for key, cl := range l.limiters {
		if now.After(cl.expires) {
			delete(l.limiters, key)
		}
	}
}

// Middleware rejects requests over the limit through deny.
func (l *RateLimiter) Middleware(deny gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			deny(ctx)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
