package retrieval

import (
	"news-retriever/internal/domain"
)

// MergedCandidate is a candidate after per-method score normalization and
// identity merging. Score is normalized to [0,1]; Provenance records which
// method(s) surfaced the passage. Vec is attached in a separate step and is
// always non-nil afterwards (a zero vector when the passage has no stored
// embedding).
type MergedCandidate struct {
	Passage    domain.RawCandidate
	Provenance domain.Provenance
	Score      float32
	Vec        []float32
}

// RankedPassage is a candidate after reranking. RerankScore is on the
// cross-encoder's scale, or equal to Score when reranking is disabled or
// the model call failed.
type RankedPassage struct {
	MergedCandidate
	RerankScore float32
}

// ToPassage strips internal-only fields (embedding, working vector) and
// produces the presentation-safe record handed to callers.
func (r RankedPassage) ToPassage() domain.Passage {
	return domain.Passage{
		ID:           r.Passage.ID,
		ArticleID:    r.Passage.ArticleID,
		Position:     r.Passage.Position,
		Content:      r.Passage.Content,
		Provenance:   r.Provenance,
		Score:        r.Score,
		RerankScore:  r.RerankScore,
		Title:        r.Passage.Title,
		URL:          r.Passage.URL,
		SourceDomain: r.Passage.SourceDomain,
		PublishedAt:  r.Passage.PublishedAt,
	}
}
