package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps one token bucket per key in a bounded LRU map. State is per process;
// use RedisLimiter when several instances serve the trigger.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache
	limit    rate.Limit
	burst    int
}

// NewLocalLimiter allows perWindow requests per window for each key, with the given burst.
// At most maxKeys buckets are tracked; the least recently used key is dropped first.
func NewLocalLimiter(perWindow int, window time.Duration, burst, maxKeys int) (*LocalLimiter, error) {
	if perWindow <= 0 || window <= 0 {
		return nil, fmt.Errorf("ratelimit: invalid rate %d per %s", perWindow, window)
	}
	if burst <= 0 {
		burst = 1
	}
	cache, err := lru.New(maxKeys)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: %w", err)
	}
	return &LocalLimiter{
		limiters: cache,
		limit:    rate.Every(window / time.Duration(perWindow)),
		burst:    burst,
	}, nil
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.bucket(key).Allow(), nil
}

// Len returns the number of tracked keys
func (l *LocalLimiter) Len() int {
	return l.limiters.Len()
}

func (l *LocalLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(key, lim)
	return lim
}
