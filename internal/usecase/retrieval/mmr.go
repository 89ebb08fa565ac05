package retrieval

// SelectMMR applies greedy Maximal Marginal Relevance to pick up to k
// candidates balancing query relevance against redundancy.
//
// lambda trades off the two terms: 1 ignores diversity, 0 ignores
// relevance after the first pick. The first pick is always the candidate
// with the highest raw retrieval score; subsequent picks maximize
// lambda*cosine(candidate, query) - (1-lambda)*max cosine(candidate,
// selected). Ties break toward the earliest remaining candidate, so the
// selection is deterministic for identical inputs.
//
// When len(candidates) <= k the input is returned unchanged: with no
// excess to trim there is nothing for diversity re-ranking to decide.
// Candidates whose Vec is a zero vector score 0 similarity against
// everything, the "unknown similarity" policy for missing embeddings.
//
// Cost is O(k * len(candidates)) similarity evaluations. The pools here
// are tens to low hundreds, so a simple deterministic scan beats an
// index-accelerated variant.
func SelectMMR(candidates []MergedCandidate, queryVec []float32, lambda float64, k int) []MergedCandidate {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= k {
		return candidates
	}

	query := UnitNormalize(queryVec)

	remaining := make([]MergedCandidate, len(candidates))
	for i, c := range candidates {
		c.Vec = UnitNormalize(c.Vec)
		remaining[i] = c
	}

	// First pick: globally highest retrieval score, earliest on ties.
	best := 0
	for i := 1; i < len(remaining); i++ {
		if remaining[i].Score > remaining[best].Score {
			best = i
		}
	}

	selected := make([]MergedCandidate, 0, k)
	selected = append(selected, remaining[best])
	remaining = append(remaining[:best], remaining[best+1:]...)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestMMR := 0.0
		for i, c := range remaining {
			relevance := float64(Cosine(c.Vec, query))
			penalty := 0.0
			for _, s := range selected {
				if sim := float64(Cosine(c.Vec, s.Vec)); sim > penalty {
					penalty = sim
				}
			}
			mmr := lambda*relevance - (1-lambda)*penalty
			if bestIdx < 0 || mmr > bestMMR {
				bestIdx = i
				bestMMR = mmr
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}
