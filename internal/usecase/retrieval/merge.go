package retrieval

import (
	"github.com/google/uuid"

	"news-retriever/internal/domain"
)

// MergeCandidates deduplicates independently normalized lexical and dense
// results by passage identity. When the same passage appears in both lists
// the record with the higher normalized score wins wholesale (content and
// metadata included) and its provenance becomes ProvenanceBoth. Both
// methods read the same denormalized rows, so choosing the winner's
// metadata cannot diverge here.
//
// Output order follows first appearance (lexical list first) so the merge
// is deterministic, though downstream stages re-sort anyway.
func MergeCandidates(lexical, dense []domain.RawCandidate) []MergedCandidate {
	index := make(map[uuid.UUID]int, len(lexical)+len(dense))
	merged := make([]MergedCandidate, 0, len(lexical)+len(dense))

	for _, lists := range [][]domain.RawCandidate{lexical, dense} {
		for _, c := range lists {
			i, seen := index[c.ID]
			if !seen {
				index[c.ID] = len(merged)
				merged = append(merged, MergedCandidate{
					Passage:    c,
					Provenance: c.Source,
					Score:      c.Score,
				})
				continue
			}
			if c.Score > merged[i].Score {
				merged[i].Passage = c
				merged[i].Score = c.Score
			}
			merged[i].Provenance = domain.ProvenanceBoth
		}
	}

	return merged
}
