package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/hidden-gems/internal/pkg/cache"
)

// RateLimiter hands out one token bucket per device.
type RateLimiter struct {
	limiters *cache.UnifiedCache[*rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per device with bursts of the
// same size. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		limiters: cache.NewUnifiedCache[*rate.Limiter](10*time.Minute, "rate_limits", nil),
		limit:    rate.Inf,
		burst:    1,
	}
	if perMinute > 0 {
		rl.limit = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = perMinute
	}
	return rl
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	limiter, _ := rl.limiters.GetOrCreate(key, func() *rate.Limiter {
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	return limiter.Allow()
}

// Purge drops limiters of devices that have been quiet for a while.
func (rl *RateLimiter) Purge() int {
	return rl.limiters.Purge()
}

// Middleware rejects requests beyond the device's budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := GetDeviceIDFromContext(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many searches. Please wait a moment and try again."})
			return
		}
		c.Next()
	}
}
