package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/unistaff/aihub-backend/internal/logger"
)

// RateLimiter is a fixed-window per-IP limiter backed by redis. A nil client
// disables limiting entirely, so deployments without redis keep working.
type RateLimiter struct {
	log       *logger.Logger
	client    *redis.Client
	perMinute int
}

func NewRateLimiter(log *logger.Logger, client *redis.Client, perMinute int) *RateLimiter {
	middlewareLog := log.With("middleware", "RateLimiter")
	return &RateLimiter{log: middlewareLog, client: client, perMinute: perMinute}
}

// Limit counts requests per route+IP in one-minute windows. Redis errors
// fail open: a broken limiter must not take auth down with it.
func (rl *RateLimiter) Limit(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil || rl.perMinute <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("ratelimit:%s:%s", route, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Warn("Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if expErr := rl.client.Expire(ctx, key, time.Minute).Err(); expErr != nil {
				rl.log.Warn("Failed to set rate limit window expiry", "error", expErr)
			}
		}
		if count > int64(rl.perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "rate limit exceeded", "code": "rate_limited"}})
			return
		}
		c.Next()
	}
}
