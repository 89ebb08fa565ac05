package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"news-retriever/internal/domain"
)

// scoreKeyPrefix namespaces score entries on a Redis shared with other
// services.
const scoreKeyPrefix = "rerank:"

// RedisScoreCache stores cross-encoder scores in Redis with a per-entry
// TTL. Scores are serialized as decimal strings so they survive a round
// trip without float drift at float32 precision.
type RedisScoreCache struct {
	client *redis.Client
}

// NewRedisScoreCache connects to Redis using a URL of the form
// redis://[user:pass@]host:port/db.
func NewRedisScoreCache(redisURL string) (*RedisScoreCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &RedisScoreCache{client: redis.NewClient(opts)}, nil
}

// NewRedisScoreCacheFromClient wraps an existing client, used by tests.
func NewRedisScoreCacheFromClient(client *redis.Client) *RedisScoreCache {
	return &RedisScoreCache{client: client}
}

var _ domain.ScoreCache = (*RedisScoreCache)(nil)

func (c *RedisScoreCache) Get(ctx context.Context, key string) (float32, bool, error) {
	val, err := c.client.Get(ctx, scoreKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read score from redis: %w", err)
	}
	score, err := strconv.ParseFloat(val, 32)
	if err != nil {
		// Treat a corrupt entry as a miss so the scorer repopulates it.
		return 0, false, nil
	}
	return float32(score), true, nil
}

func (c *RedisScoreCache) Set(ctx context.Context, key string, score float32, ttl time.Duration) error {
	val := strconv.FormatFloat(float64(score), 'f', -1, 32)
	if err := c.client.Set(ctx, scoreKeyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write score to redis: %w", err)
	}
	return nil
}

// Ping verifies connectivity, used by the health endpoint.
func (c *RedisScoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *RedisScoreCache) Close() error {
	return c.client.Close()
}
