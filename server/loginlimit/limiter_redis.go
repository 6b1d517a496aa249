package loginlimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "aeroboard:ratelimit:"

// RedisLimiter shares counters between gateway instances with INCR and EXPIRE.
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
}

func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg.withDefaults()}
}

// NewRedisClient connects and pings before returning.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("no Redis address provided")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = redisKeyPrefix + key

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment login attempt: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to set login attempt window: %w", err)
		}
	}
	return count <= int64(l.cfg.MaxAttempts), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, redisKeyPrefix+key).Err()
}

var _ Limiter = (*RedisLimiter)(nil)
