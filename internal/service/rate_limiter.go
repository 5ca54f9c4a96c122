package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/token-authorizer/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimitResult describes the outcome of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter implements a sliding window log in Redis sorted sets
type RateLimiter struct {
	redis *database.Redis
	now   func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis, now: time.Now}
}

// Allow records a request for key if it fits within limit requests per window
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	now := r.now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	windowStart := now.Add(-window).UnixMilli()

	pipe := r.redis.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	used := int(count.Val())
	if used >= limit {
		retryAfter := window
		if entries := oldest.Val(); len(entries) > 0 {
			oldestAt := time.UnixMilli(int64(entries[0].Score))
			retryAfter = oldestAt.Add(window).Sub(now)
		}
		return &RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			RetryAfter: retryAfter,
		}, nil
	}

	pipe = r.redis.Client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, redisKey, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	return &RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - used - 1,
	}, nil
}
