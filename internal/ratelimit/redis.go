package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit"

// RedisOptions configures RedisLimiter
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

// RedisLimiter is a fixed-window counter shared by every instance using the same Redis
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter connects to Redis and verifies the connection
func NewRedisLimiter(opts RedisOptions) (*RedisLimiter, error) {
	if opts.Limit <= 0 || opts.Window <= 0 {
		return nil, fmt.Errorf("ratelimit: invalid rate %d per %s", opts.Limit, opts.Window)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisLimiter(rdb, opts), nil
}

func newRedisLimiter(rdb *redis.Client, opts RedisOptions) *RedisLimiter {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisLimiter{
		client: rdb,
		limit:  int64(opts.Limit),
		window: opts.Window,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow increments the counter of key's current window and compares it with the limit
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key, l.now())

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: failed to count request: %w", err)
	}
	return count.Val() <= l.limit, nil
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

func (l *RedisLimiter) windowKey(key string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, t.Truncate(l.window).Unix())
}
