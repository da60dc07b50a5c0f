package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SpendRateLimit limits purchases and donations per student (not per IP)
// using Redis. Requires RequireSession to run before this.
func SpendRateLimit(maxSpends int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		session := SessionFrom(c)
		if session == nil || session.StudentCode == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "spend_rl:" + session.Scope + ":" + session.StudentCode + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-SpendRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-SpendRateLimit-Limit", strconv.Itoa(maxSpends))
		c.Header("X-SpendRateLimit-Remaining", strconv.FormatInt(maxRemaining(int64(maxSpends), val), 10))

		if val > int64(maxSpends) {
			RLBlocked.WithLabelValues("spend:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "spend rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("spend:" + c.FullPath()).Inc()
		c.Next()
	}
}

func maxRemaining(limit, used int64) int64 {
	if limit-used > 0 {
		return limit - used
	}
	return 0
}
