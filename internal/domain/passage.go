package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provenance identifies which retrieval method surfaced a passage.
type Provenance string

const (
	ProvenanceLexical Provenance = "lexical"
	ProvenanceDense   Provenance = "dense"
	// ProvenanceBoth marks passages found by both methods after merging.
	ProvenanceBoth Provenance = "both"
)

// RawCandidate is a passage as returned by a single retrieval method,
// before normalization and merging. Score is on the method's own scale
// (ts_rank statistic for lexical, cosine-derived similarity for dense)
// and must not be compared across methods.
type RawCandidate struct {
	ID        uuid.UUID
	ArticleID string
	Position  int
	Content   string
	// Embedding is nil when the passage has no stored vector.
	Embedding []float32
	Score     float32
	Source    Provenance

	// Denormalized article metadata, carried through for presentation.
	Title        string
	URL          string
	SourceDomain string
	// PublishedAt is the zero time when the article has no publish timestamp.
	PublishedAt time.Time
}

// Passage is the presentation-safe record produced by the retrieval
// pipeline. Internal fields (embeddings, working vectors) are stripped
// before a Passage is built.
type Passage struct {
	ID           uuid.UUID
	ArticleID    string
	Position     int
	Content      string
	Provenance   Provenance
	Score        float32 // normalized to [0,1] within the method that found it
	RerankScore  float32 // cross-encoder scale, or Score when reranking is off
	Title        string
	URL          string
	SourceDomain string
	PublishedAt  time.Time
}
