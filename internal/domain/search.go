package domain

import "context"

// LexicalSearcher performs full-text search over the passage store.
type LexicalSearcher interface {
	// SearchLexical returns up to limit passages matching the query under
	// the store's lexical ranking function, ordered by descending score.
	// Each result carries Source = ProvenanceLexical.
	SearchLexical(ctx context.Context, query string, limit int) ([]RawCandidate, error)
}

// DenseSearcher performs nearest-neighbor search over passage embeddings.
type DenseSearcher interface {
	// SearchDense returns up to limit passages ordered by ascending
	// distance to the query embedding, restricted to passages that have a
	// stored embedding. Each result carries Source = ProvenanceDense.
	SearchDense(ctx context.Context, queryVector []float32, limit int) ([]RawCandidate, error)
}
