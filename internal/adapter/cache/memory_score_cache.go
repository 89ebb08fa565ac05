package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"news-retriever/internal/domain"
)

const defaultMemoryCacheSize = 4096

// MemoryScoreCache is an in-process fallback used when no Redis URL is
// configured. The expirable LRU applies one TTL to every entry, fixed
// at construction; the ttl argument on Set is accepted for interface
// compatibility but the constructor's TTL wins.
type MemoryScoreCache struct {
	lru *expirable.LRU[string, float32]
}

// NewMemoryScoreCache creates an in-memory score cache holding at most
// size entries, each valid for ttl.
func NewMemoryScoreCache(size int, ttl time.Duration) *MemoryScoreCache {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	return &MemoryScoreCache{
		lru: expirable.NewLRU[string, float32](size, nil, ttl),
	}
}

var _ domain.ScoreCache = (*MemoryScoreCache)(nil)

func (c *MemoryScoreCache) Get(_ context.Context, key string) (float32, bool, error) {
	score, ok := c.lru.Get(key)
	return score, ok, nil
}

func (c *MemoryScoreCache) Set(_ context.Context, key string, score float32, _ time.Duration) error {
	c.lru.Add(key, score)
	return nil
}

// Ping always succeeds; the cache lives in process memory.
func (c *MemoryScoreCache) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op, present so both cache backends share a lifecycle.
func (c *MemoryScoreCache) Close() error {
	return nil
}
