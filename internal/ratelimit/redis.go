package ratelimit

import (
	"context"
	"time"

	"lawfirm-cms/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares the sliding window across API replicas.
type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	policy Policy
	now    Clock
}

func NewRedisLimiter(rdb redis.Scripter, prefix string, p Policy, now Clock) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	if prefix == "" {
		prefix = "ratelimit:login:"
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, policy: p.withDefaults(), now: now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return utils.SlidingWindowAllow(ctx, l.rdb, l.prefix+key, l.policy.Max, l.policy.Window, l.now(), uuid.NewString())
}
