package middleware

import (
	"fmt"
	"time"

	"voluntr_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// incrWithExpiry bumps the window counter and starts the window on first use.
var incrWithExpiry = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter is a fixed-window limiter keyed by the authenticated caller.
type RateLimiter struct {
	redis  redis.Scripter
	limit  int64
	window time.Duration
	prefix string
	// failOpen lets requests through when Redis errors.
	failOpen bool
	logger   *zap.Logger
}

// NewRateLimiter creates a limiter allowing limit calls per window. A nil
// client or a non-positive limit disables limiting.
func NewRateLimiter(client redis.Scripter, limit int64, window time.Duration, prefix string, failOpen bool, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:    client,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		failOpen: failOpen,
		logger:   logger,
	}
}

func (rl *RateLimiter) enabled() bool {
	return rl.redis != nil && rl.limit > 0 && rl.window > 0
}

// Middleware must run after AuthMiddleware. Unauthenticated calls fall back to the client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		keySuffix := c.ClientIP()
		if userID := common.GetUserIDFromContext(c); userID != 0 {
			keySuffix = fmt.Sprintf("user:%d", userID)
		}
		key := rl.prefix + keySuffix

		ttlSeconds := int64(rl.window / time.Second)
		if ttlSeconds < 1 {
			ttlSeconds = 1
		}
		count, err := incrWithExpiry.Run(c.Request.Context(), rl.redis, []string{key}, ttlSeconds).Int64()
		if err != nil {
			rl.logger.Error("Rate limit Redis error", zap.Error(err), zap.String("key", key))
			if rl.failOpen {
				c.Next()
				return
			}
			common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Rate limiting temporarily unavailable."))
			return
		}

		if count > rl.limit {
			c.Header("Retry-After", fmt.Sprintf("%d", ttlSeconds))
			common.RespondWithError(c, common.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
