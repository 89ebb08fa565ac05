package retrieval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"news-retriever/internal/domain"
)

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Score(ctx context.Context, query string, candidates []domain.RerankCandidate) ([]domain.RerankResult, error) {
	args := m.Called(ctx, query, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RerankResult), args.Error(1)
}

func (m *mockScorer) ModelName() string {
	return "mock-cross-encoder"
}

type mockScoreCache struct {
	mock.Mock
}

func (m *mockScoreCache) Get(ctx context.Context, key string) (float32, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(float32), args.Bool(1), args.Error(2)
}

func (m *mockScoreCache) Set(ctx context.Context, key string, score float32, ttl time.Duration) error {
	args := m.Called(ctx, key, score, ttl)
	return args.Error(0)
}

func rerankLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rankedInput(names []string, scores []float32) []MergedCandidate {
	out := make([]MergedCandidate, len(names))
	for i, name := range names {
		out[i] = MergedCandidate{
			Passage: domain.RawCandidate{
				ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
				Content: name,
			},
			Score: scores[i],
		}
	}
	return out
}

func TestReranker_Disabled_PassThrough(t *testing.T) {
	reranker := NewReranker(nil, nil, time.Hour, false, rerankLogger())
	require.False(t, reranker.Enabled())

	input := rankedInput([]string{"a", "b", "c"}, []float32{0.3, 0.9, 0.6})

	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].Passage.Content)
	assert.Equal(t, "c", ranked[1].Passage.Content)
	assert.Equal(t, "a", ranked[2].Passage.Content)
	for _, r := range ranked {
		assert.Equal(t, r.Score, r.RerankScore)
	}
}

func TestReranker_NilScorerDisablesEvenWhenEnabled(t *testing.T) {
	reranker := NewReranker(nil, nil, time.Hour, true, rerankLogger())
	assert.False(t, reranker.Enabled())
}

func TestReranker_AllMisses_ScoresAndCaches(t *testing.T) {
	input := rankedInput([]string{"a", "b"}, []float32{0.8, 0.6})

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.MatchedBy(func(batch []domain.RerankCandidate) bool {
		return len(batch) == 2
	})).Return([]domain.RerankResult{
		{ID: input[0].Passage.ID.String(), Score: 0.1},
		{ID: input[1].Passage.ID.String(), Score: 0.9},
	}, nil)

	cache := new(mockScoreCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(float32(0), false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)

	reranker := NewReranker(scorer, cache, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Passage.Content)
	assert.Equal(t, float32(0.9), ranked[0].RerankScore)
	assert.Equal(t, float32(0.1), ranked[1].RerankScore)

	cache.AssertNumberOfCalls(t, "Set", 2)
	scorer.AssertExpectations(t)
}

func TestReranker_CacheHitSkipsModel(t *testing.T) {
	input := rankedInput([]string{"hit", "miss"}, []float32{0.5, 0.4})
	hitKey := domain.RerankCacheKey("query", input[0].Passage.ID)
	missKey := domain.RerankCacheKey("query", input[1].Passage.ID)

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.MatchedBy(func(batch []domain.RerankCandidate) bool {
		return len(batch) == 1 && batch[0].Content == "miss"
	})).Return([]domain.RerankResult{
		{ID: input[1].Passage.ID.String(), Score: 0.2},
	}, nil)

	cache := new(mockScoreCache)
	cache.On("Get", mock.Anything, hitKey).Return(float32(0.95), true, nil)
	cache.On("Get", mock.Anything, missKey).Return(float32(0), false, nil)
	cache.On("Set", mock.Anything, missKey, float32(0.2), time.Hour).Return(nil)

	reranker := NewReranker(scorer, cache, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 2)
	assert.Equal(t, "hit", ranked[0].Passage.Content)
	assert.Equal(t, float32(0.95), ranked[0].RerankScore)
	assert.Equal(t, float32(0.2), ranked[1].RerankScore)

	scorer.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReranker_ModelFailure_FallsBackToRetrievalScores(t *testing.T) {
	input := rankedInput([]string{"a", "b"}, []float32{0.3, 0.7})

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.Anything).Return(nil, errors.New("model down"))

	cache := new(mockScoreCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(float32(0), false, nil)

	reranker := NewReranker(scorer, cache, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Passage.Content)
	assert.Equal(t, float32(0.7), ranked[0].RerankScore)
	assert.Equal(t, float32(0.3), ranked[1].RerankScore)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReranker_CacheReadErrorTreatedAsMiss(t *testing.T) {
	input := rankedInput([]string{"a"}, []float32{0.5})

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.Anything).Return([]domain.RerankResult{
		{ID: input[0].Passage.ID.String(), Score: 0.8},
	}, nil)

	cache := new(mockScoreCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(float32(0), false, errors.New("redis timeout"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reranker := NewReranker(scorer, cache, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 1)
	assert.Equal(t, float32(0.8), ranked[0].RerankScore)
}

func TestReranker_CacheWriteErrorSwallowed(t *testing.T) {
	input := rankedInput([]string{"a"}, []float32{0.5})

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.Anything).Return([]domain.RerankResult{
		{ID: input[0].Passage.ID.String(), Score: 0.8},
	}, nil)

	cache := new(mockScoreCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(float32(0), false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("write failed"))

	reranker := NewReranker(scorer, cache, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 1)
	assert.Equal(t, float32(0.8), ranked[0].RerankScore)
}

func TestReranker_NilCache_AllMisses(t *testing.T) {
	input := rankedInput([]string{"a"}, []float32{0.5})

	scorer := new(mockScorer)
	scorer.On("Score", mock.Anything, "query", mock.Anything).Return([]domain.RerankResult{
		{ID: input[0].Passage.ID.String(), Score: 0.6},
	}, nil)

	reranker := NewReranker(scorer, nil, time.Hour, true, rerankLogger())
	ranked := reranker.Rerank(context.Background(), "query", input)

	require.Len(t, ranked, 1)
	assert.Equal(t, float32(0.6), ranked[0].RerankScore)
}

func TestReranker_EmptyInput(t *testing.T) {
	scorer := new(mockScorer)
	reranker := NewReranker(scorer, nil, time.Hour, true, rerankLogger())

	ranked := reranker.Rerank(context.Background(), "query", nil)

	assert.Empty(t, ranked)
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
}
