package usecase

import (
	"fmt"
	"time"
)

// RerankingConfig holds settings for cross-encoder reranking.
type RerankingConfig struct {
	// Enabled controls whether reranking is applied. When false the
	// pipeline runs in pass-through mode with zero extra dependencies.
	Enabled bool
	// CacheTTL is how long cached cross-encoder scores stay valid.
	CacheTTL time.Duration
}

// DefaultRerankingConfig returns the stock reranking settings.
func DefaultRerankingConfig() RerankingConfig {
	return RerankingConfig{
		Enabled:  true,
		CacheTTL: time.Hour,
	}
}

// Validate checks the reranking configuration.
func (c RerankingConfig) Validate() error {
	if c.Enabled && c.CacheTTL <= 0 {
		return fmt.Errorf("reranking cacheTTL must be positive, got %v", c.CacheTTL)
	}
	return nil
}

// RetrievalConfig holds tunable parameters for hybrid retrieval. All of
// these are knobs, not structure: changing them never changes the shape
// of the pipeline.
type RetrievalConfig struct {
	// LexicalLimit is the number of candidates fetched by full-text search.
	LexicalLimit int

	// DenseLimit is the number of candidates fetched by vector search.
	DenseLimit int

	// MMRPoolSize is the size of the diversity-bounded intermediate set
	// selected by MMR, larger than FinalK so the reranker has room to work.
	MMRPoolSize int

	// MMRLambda trades relevance (1.0) against diversity (0.0).
	MMRLambda float64

	// FinalK is the number of passages returned to callers.
	FinalK int

	// Reranking holds cross-encoder reranking settings.
	Reranking RerankingConfig
}

// DefaultRetrievalConfig returns the stock retrieval settings.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		LexicalLimit: 50,
		DenseLimit:   50,
		MMRPoolSize:  30,
		MMRLambda:    0.7,
		FinalK:       8,
		Reranking:    DefaultRerankingConfig(),
	}
}

// Validate checks that the configuration values are within acceptable ranges.
func (c RetrievalConfig) Validate() error {
	if c.LexicalLimit <= 0 {
		return fmt.Errorf("lexicalLimit must be positive, got %d", c.LexicalLimit)
	}
	if c.DenseLimit <= 0 {
		return fmt.Errorf("denseLimit must be positive, got %d", c.DenseLimit)
	}
	if c.MMRPoolSize <= 0 {
		return fmt.Errorf("mmrPoolSize must be positive, got %d", c.MMRPoolSize)
	}
	if c.MMRLambda < 0.0 || c.MMRLambda > 1.0 {
		return fmt.Errorf("mmrLambda must be in [0.0, 1.0], got %f", c.MMRLambda)
	}
	if c.FinalK <= 0 {
		return fmt.Errorf("finalK must be positive, got %d", c.FinalK)
	}
	if c.FinalK > c.MMRPoolSize {
		return fmt.Errorf("finalK (%d) must not exceed mmrPoolSize (%d)", c.FinalK, c.MMRPoolSize)
	}
	if err := c.Reranking.Validate(); err != nil {
		return fmt.Errorf("reranking config invalid: %w", err)
	}
	return nil
}
