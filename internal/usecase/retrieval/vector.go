package retrieval

import "math"

// UnitNormalize returns v scaled to unit length. A zero vector is returned
// unchanged so that its cosine similarity to anything is 0.
func UnitNormalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Cosine computes the dot product of two vectors. For unit-normalized
// inputs this is the cosine similarity. Mismatched lengths compare only
// the overlapping prefix; a zero or empty vector yields 0.
func Cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot)
}

// AttachVectors gives every candidate a unit-normalizable working vector:
// the stored embedding when present, otherwise a zero vector of the query
// dimensionality.
func AttachVectors(candidates []MergedCandidate, dim int) []MergedCandidate {
	out := make([]MergedCandidate, len(candidates))
	for i, c := range candidates {
		if len(c.Passage.Embedding) > 0 {
			c.Vec = c.Passage.Embedding
		} else {
			c.Vec = make([]float32, dim)
		}
		out[i] = c
	}
	return out
}
