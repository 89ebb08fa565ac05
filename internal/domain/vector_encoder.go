package domain

import "context"

// VectorEncoder generates dense embeddings for text.
//
// The pipeline embeds the query exactly once per run and reuses the
// vector for both dense search and MMR relevance.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	// Version identifies the embedding model, for logging and cache scoping.
	Version() string
}
