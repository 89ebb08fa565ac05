package retrieval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-retriever/internal/domain"
)

func lexicalCandidate(score float32) domain.RawCandidate {
	return domain.RawCandidate{
		ID:     uuid.New(),
		Score:  score,
		Source: domain.ProvenanceLexical,
	}
}

func TestNormalizeScores_MinMax(t *testing.T) {
	candidates := []domain.RawCandidate{
		lexicalCandidate(2.0),
		lexicalCandidate(6.0),
		lexicalCandidate(10.0),
	}

	out := NormalizeScores(candidates, domain.ProvenanceLexical)

	require.Len(t, out, 3)
	assert.InDelta(t, 0.0, out[0].Score, 1e-6)
	assert.InDelta(t, 0.5, out[1].Score, 1e-6)
	assert.InDelta(t, 1.0, out[2].Score, 1e-6)
}

func TestNormalizeScores_AllEqualBecomeOne(t *testing.T) {
	candidates := []domain.RawCandidate{
		lexicalCandidate(0.37),
		lexicalCandidate(0.37),
	}

	out := NormalizeScores(candidates, domain.ProvenanceLexical)

	for _, c := range out {
		assert.Equal(t, float32(1.0), c.Score)
	}
}

func TestNormalizeScores_SingleCandidate(t *testing.T) {
	out := NormalizeScores([]domain.RawCandidate{lexicalCandidate(42.5)}, domain.ProvenanceLexical)

	require.Len(t, out, 1)
	assert.Equal(t, float32(1.0), out[0].Score)
}

func TestNormalizeScores_OtherSourceUntouched(t *testing.T) {
	dense := domain.RawCandidate{ID: uuid.New(), Score: 0.83, Source: domain.ProvenanceDense}
	candidates := []domain.RawCandidate{
		lexicalCandidate(1.0),
		lexicalCandidate(3.0),
		dense,
	}

	out := NormalizeScores(candidates, domain.ProvenanceLexical)

	assert.Equal(t, float32(0.83), out[2].Score)
}

func TestNormalizeScores_Empty(t *testing.T) {
	out := NormalizeScores(nil, domain.ProvenanceLexical)
	assert.Empty(t, out)
}

func TestNormalizeScores_DoesNotMutateInput(t *testing.T) {
	candidates := []domain.RawCandidate{
		lexicalCandidate(2.0),
		lexicalCandidate(8.0),
	}

	_ = NormalizeScores(candidates, domain.ProvenanceLexical)

	assert.Equal(t, float32(2.0), candidates[0].Score)
	assert.Equal(t, float32(8.0), candidates[1].Score)
}
