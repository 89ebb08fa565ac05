package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ScoreCache stores cross-encoder scores keyed by (query, passage) pairs.
// Entries expire after a TTL; an expired or missing entry is a miss.
//
// Concurrent pipeline runs may race on the same key with last-write-wins
// semantics. Cached values are idempotent recomputations, so a lost write
// is wasted work, not a correctness problem.
type ScoreCache interface {
	// Get returns the cached score and true on a hit. A transport error is
	// returned alongside ok=false; callers treat it as a miss.
	Get(ctx context.Context, key string) (float32, bool, error)

	// Set stores a score with the given TTL. Writes are best-effort.
	Set(ctx context.Context, key string, score float32, ttl time.Duration) error
}

// RerankCacheKey derives a fixed-length cache key from the query text and
// passage identity. SHA-256 keeps the key length bounded regardless of
// query length; a NUL separator prevents ambiguity between the two parts.
func RerankCacheKey(query string, passageID uuid.UUID) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write(passageID[:])
	return hex.EncodeToString(h.Sum(nil))
}
