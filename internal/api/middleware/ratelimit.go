package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding window limiter keyed by an arbitrary string,
// usually the client IP.
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for key. When the window is full it returns how
// long until the oldest request expires.
func (rl *RateLimiter) Allow(key string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanupOldRequests(key, now)

	if reqs := rl.requests[key]; len(reqs) >= rl.maxRequests {
		return reqs[0].Add(rl.window).Sub(now), false
	}
	rl.requests[key] = append(rl.requests[key], now)
	return 0, true
}

// cleanupOldRequests removes requests outside the time window
func (rl *RateLimiter) cleanupOldRequests(key string, now time.Time) {
	requests, exists := rl.requests[key]
	if !exists {
		return
	}
	cutoff := now.Add(-rl.window)
	valid := requests[:0]
	for _, req := range requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	if len(valid) == 0 {
		delete(rl.requests, key)
	} else {
		rl.requests[key] = valid
	}
}

// Stats returns rate limiter statistics
func (rl *RateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"tracked_clients": len(rl.requests),
		"max_requests":    rl.maxRequests,
		"window":          rl.window.String(),
	}
}

// RateLimit rejects clients that exceed the limiter's window with a 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		wait, ok := rl.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			utils.SendTooManyRequests(c, fmt.Sprintf("Rate limit exceeded: maximum %d requests per %v", rl.maxRequests, rl.window))
			c.Abort()
			return
		}
		c.Next()
	}
}
