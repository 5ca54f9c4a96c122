package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RedisSource reads parameters stored as plain string keys
type RedisSource struct {
	redis  *database.Redis
	prefix string
}

// NewRedisSource creates a new Redis parameter source. Keys are "<prefix><name>".
func NewRedisSource(redis *database.Redis, prefix string) *RedisSource {
	return &RedisSource{redis: redis, prefix: prefix}
}

func (s *RedisSource) GetParameter(ctx context.Context, name string) (string, error) {
	value, err := s.redis.Client.Get(ctx, s.prefix+name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
		}
		return "", fmt.Errorf("failed to get parameter %s from redis: %w", name, err)
	}
	return value, nil
}
