package retrieval

import "news-retriever/internal/domain"

// NormalizeScores rescales the scores of all candidates bearing the given
// source tag to [0,1] via min-max normalization, leaving other candidates
// untouched. When every score for the tag is identical the candidates all
// get 1.0 instead of dividing by zero.
//
// Lexical and dense scores live on incomparable scales (a rank statistic
// vs. a distance-derived similarity), so each method is normalized
// independently before any cross-method comparison.
func NormalizeScores(candidates []domain.RawCandidate, source domain.Provenance) []domain.RawCandidate {
	var minScore, maxScore float32
	found := false
	for _, c := range candidates {
		if c.Source != source {
			continue
		}
		if !found {
			minScore, maxScore = c.Score, c.Score
			found = true
			continue
		}
		if c.Score < minScore {
			minScore = c.Score
		}
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if !found {
		return candidates
	}

	out := make([]domain.RawCandidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		if out[i].Source != source {
			continue
		}
		if maxScore == minScore {
			out[i].Score = 1.0
		} else {
			out[i].Score = (out[i].Score - minScore) / (maxScore - minScore)
		}
	}
	return out
}
