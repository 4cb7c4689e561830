package fraud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// VelocityStore counts requests per key inside a rolling window.
type VelocityStore interface {
	// Incr records one request for key and returns the count observed
	// inside the current window, the new request included.
	Incr(ctx context.Context, key string) (count int64, err error)
}

const DefaultVelocityWindow = time.Minute

// RedisVelocity tracks request velocity in redis so that counts are
// shared across gateway instances.
type RedisVelocity struct {
	client *redis.Client
	window time.Duration
}

func NewRedisVelocity(client *redis.Client, window time.Duration) (s *RedisVelocity) {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &RedisVelocity{client: client, window: window}
}

func (s *RedisVelocity) Incr(ctx context.Context, key string) (count int64, err error) {
	redisKey := fmt.Sprintf("velocity:%s", key)

	count, err = s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment velocity counter: %w", err)
	}
	if count == 1 {
		// First hit opens the window
		s.client.Expire(ctx, redisKey, s.window)
	}
	return count, nil
}

// MemoryVelocity is an in-process store for single-instance deployments
// and tests.
type MemoryVelocity struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
}

func NewMemoryVelocity(window time.Duration) (s *MemoryVelocity) {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &MemoryVelocity{window: window, hits: make(map[string][]time.Time)}
}

func (s *MemoryVelocity) Incr(_ context.Context, key string) (count int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-s.window)

	kept := s.hits[key][:0]
	for _, hit := range s.hits[key] {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}
	kept = append(kept, now)
	s.hits[key] = kept

	return int64(len(kept)), nil
}
