package retrieval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-retriever/internal/domain"
)

func TestUnitNormalize(t *testing.T) {
	v := UnitNormalize([]float32{3, 4})

	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestUnitNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	out := UnitNormalize(v)

	assert.Equal(t, []float32{0, 0, 0}, out)
}

func TestUnitNormalize_DoesNotMutateInput(t *testing.T) {
	v := []float32{3, 4}
	_ = UnitNormalize(v)

	assert.Equal(t, []float32{3, 4}, v)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{
			name:     "identical unit vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 1, 0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "zero vector yields zero",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 1, 1},
			expected: 0.0,
		},
		{
			name:     "mismatched lengths use overlapping prefix",
			a:        []float32{1, 1},
			b:        []float32{1, 0, 5},
			expected: 1.0,
		},
		{
			name:     "empty vector",
			a:        []float32{},
			b:        []float32{1, 2},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestAttachVectors(t *testing.T) {
	candidates := []MergedCandidate{
		{Passage: domain.RawCandidate{Embedding: []float32{0.5, 0.5}}},
		{Passage: domain.RawCandidate{Embedding: nil}},
	}

	out := AttachVectors(candidates, 2)

	require.Len(t, out, 2)
	assert.Equal(t, []float32{0.5, 0.5}, out[0].Vec)
	assert.Equal(t, []float32{0, 0}, out[1].Vec)
}

func TestAttachVectors_Empty(t *testing.T) {
	out := AttachVectors(nil, 4)
	assert.Empty(t, out)
}
