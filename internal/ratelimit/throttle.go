package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Throttle is a token bucket per client IP for the general API surface.
// Idle buckets are evicted after five minutes.
func Throttle(perSecond float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := expirable.NewLRU[string, *rate.Limiter](maxTrackedOrigins, nil, 5*time.Minute)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		mu.Lock()
		lim, ok := buckets.Get(ip)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
		// refresh TTL
		buckets.Add(ip, lim)
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": "error", "message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
