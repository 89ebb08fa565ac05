package domain

import "context"

// RerankCandidate is a passage submitted for cross-encoder scoring.
type RerankCandidate struct {
	// ID is the passage identifier (used to map scores back).
	ID string
	// Content is the text scored against the query.
	Content string
	// Score is the incoming retrieval score, used as the fallback when the
	// scoring model is unavailable.
	Score float32
}

// RerankResult is a single cross-encoder score.
type RerankResult struct {
	// ID matches the candidate ID.
	ID string
	// Score is the cross-encoder relevance score.
	Score float32
}

// PairwiseScorer scores (query, passage) pairs with a cross-encoder model.
// Implementations call an external inference service; a failed call covers
// the whole batch and callers fall back to the incoming scores.
type PairwiseScorer interface {
	// Score returns one result per candidate. Order of results is not
	// guaranteed; callers map them back by ID.
	Score(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankResult, error)

	// ModelName returns the model identifier for logging.
	ModelName() string
}
