package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/metrics"
)

// RateLimiter implements per-client token bucket rate limiting.
//
// Limiters for clients that have refilled their bucket are dropped on every
// cleanup tick. Stop ends the cleanup goroutine.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter allowing rps requests per second with
// the given burst per identifier, and starts its cleanup loop.
func NewRateLimiter(rps float64, burst int, cleanup time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		cleanup:  cleanup,
		done:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether a request from identifier may proceed.
func (rl *RateLimiter) Allow(identifier string) bool {
	allowed := rl.getLimiter(identifier).Allow()
	metrics.RateLimitChecks.WithLabelValues(strconv.FormatBool(allowed)).Inc()
	return allowed
}

// Len returns the number of identifiers currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Stop terminates the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) getLimiter(identifier string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[identifier] = limiter
		metrics.RateLimitTrackedClients.Set(float64(len(rl.limiters)))
	}

	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep removes limiters whose bucket is full again.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for identifier, limiter := range rl.limiters {
		if limiter.Tokens() >= float64(rl.burst) {
			delete(rl.limiters, identifier)
		}
	}
	metrics.RateLimitTrackedClients.Set(float64(len(rl.limiters)))
}

// RateLimitByIP creates middleware that rate limits requests by client IP address.
// Rejected requests carry an apperror.TooManyRequests for ErrorHandler to render.
//
// Example:
//
//	limiter := NewRateLimiter(10, 20, time.Minute)
//	defer limiter.Stop()
//	router.Use(RateLimitByIP(limiter))
func RateLimitByIP(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			_ = c.Error(apperror.TooManyRequests("Rate limit exceeded"))
			c.Abort()
			return
		}

		c.Next()
	}
}
