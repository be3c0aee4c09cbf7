package ratelimit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"dialbook/internal/domain"
)

// Redis key prefix for lookup windows.
const lookupKeyPrefix = "rl:lookup:"

// RedisLimiter shares the fixed window across instances. INCR plus a
// first-hit EXPIRE keeps the window atomic without scripting.
type RedisLimiter struct {
	client *redis.Client
	window Window
	logger *slog.Logger
}

func NewRedis(client *redis.Client, window Window, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, logger: logger}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity domain.Identity) bool {
	if l.window.Limit <= 0 {
		return true
	}

	key := fmt.Sprintf("%s%d", lookupKeyPrefix, identity)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window.Period)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: losing rate limiting is preferable to losing lookups.
		l.logger.Warn("rate limit check failed, allowing request",
			"identity", int64(identity), "error", err)
		return true
	}
	return incr.Val() <= int64(l.window.Limit)
}
