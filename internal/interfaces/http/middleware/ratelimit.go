package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/utils"
)

// RateLimiter provides Redis-backed rate limiting using a fixed-window counter.
// Authenticated requests are counted per user, anonymous ones per client IP.
// All instances share the counters through Redis.
type RateLimiter struct {
	redisClient *redis.Client
	name        string
	limit       int
	window      time.Duration
	logger      logger.Interface
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// name separates the counters of different limiters.
func NewRateLimiter(redisClient *redis.Client, name string, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		redisClient: redisClient,
		name:        name,
		limit:       limit,
		window:      window,
		logger:      log,
		now:         time.Now,
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	windowBucket := rl.now().Unix() / int64(rl.window.Seconds())
	if userID := c.GetUint(constants.ContextKeyUserID); userID != 0 {
		return fmt.Sprintf("ratelimit:%s:user:%d:%d", rl.name, userID, windowBucket)
	}
	return fmt.Sprintf("ratelimit:%s:ip:%s:%d", rl.name, c.ClientIP(), windowBucket)
}

// Limit returns a Gin middleware that enforces the limit.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key := rl.key(c)
		ctx := c.Request.Context()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis outages must not block traffic
			rl.logger.Warnw("rate limit check skipped", "limiter", rl.name, "error", err)
			c.Next()
			return
		}

		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.window+time.Second)
		}

		if count > int64(rl.limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
