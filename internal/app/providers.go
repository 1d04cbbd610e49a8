package app

import (
	"voluntr_backend/internal/config"
	"voluntr_backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const friendRequestRateLimitPrefix = "ratelimit:friend_requests:"

// NewFriendRequestLimiter limits how many friend requests one caller can send
// per window. Without Redis the limiter lets everything through.
func NewFriendRequestLimiter(client *redis.Client, cfg *config.Config, logger *zap.Logger) *middleware.RateLimiter {
	var scripter redis.Scripter
	if client != nil {
		scripter = client
	}
	return middleware.NewRateLimiter(
		scripter,
		cfg.FriendRequestRateLimit,
		cfg.FriendRequestRateWindow,
		friendRequestRateLimitPrefix,
		true,
		logger.Named("ratelimit"),
	)
}
