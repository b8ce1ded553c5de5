package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// RateLimiter applies a token bucket per client IP. Buckets are kept
// in-process; there is no cross-instance coordination, matching the
// best-effort contract of the original limiter.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	lim, ok := rl.buckets[ip]
	if !ok {
		lim = rate.NewLimiter(rl.rps, rl.burst)
		rl.buckets[ip] = lim
	}
	return lim
}

// Handler rejects requests over the limit with 429. Rate limiting sits
// outside the error taxonomy, the same way the original framework plugin did.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Envelope{
				Success: false,
				Error: &response.ErrorBody{
					Code:    "TOO_MANY_REQUESTS",
					Message: "rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}
