package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (cl *clientLimiter) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if l, ok := cl.limiters[key]; ok {
		return l
	}
	l := rate.NewLimiter(cl.r, cl.burst)
	cl.limiters[key] = l
	return l
}

// RateLimit limits requests per client IP using a token bucket.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	cl := newClientLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		limiter := cl.get(c.ClientIP())
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "Too many requests, slow down.",
			})
			return
		}
		c.Next()
	}
}
