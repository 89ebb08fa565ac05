package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"news-retriever/internal/domain"
	"news-retriever/internal/infra/metrics"
)

// Reranker applies cross-encoder scores to MMR-selected candidates, using
// a TTL'd score cache to skip recomputation. It is constructed by the
// composition root and injected into the pipeline; there is no ambient
// singleton.
type Reranker struct {
	scorer   domain.PairwiseScorer
	cache    domain.ScoreCache
	cacheTTL time.Duration
	enabled  bool
	logger   *slog.Logger
}

// NewReranker builds a reranking stage. With enabled=false or a nil
// scorer the stage runs in pass-through mode: every passage gets
// RerankScore = Score and the output is sorted by the incoming score.
// cache may be nil, in which case every passage is a miss.
func NewReranker(scorer domain.PairwiseScorer, cache domain.ScoreCache, cacheTTL time.Duration, enabled bool, logger *slog.Logger) *Reranker {
	return &Reranker{
		scorer:   scorer,
		cache:    cache,
		cacheTTL: cacheTTL,
		enabled:  enabled && scorer != nil,
		logger:   logger,
	}
}

// Enabled reports whether cross-encoder scoring is active.
func (r *Reranker) Enabled() bool {
	return r.enabled
}

// Rerank scores the candidates against the query and returns them sorted
// by rerank score descending. Model and cache failures never propagate:
// a failed model call falls back to the incoming scores for the whole
// miss batch, and cache errors degrade to miss (read) or no-op (write).
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []MergedCandidate) []RankedPassage {
	ranked := make([]RankedPassage, len(candidates))
	for i, c := range candidates {
		ranked[i] = RankedPassage{MergedCandidate: c, RerankScore: c.Score}
	}

	if !r.enabled || len(ranked) == 0 {
		sortByRerankScore(ranked)
		return ranked
	}

	hits := 0
	var misses []int
	for i := range ranked {
		score, ok := r.cacheGet(ctx, query, ranked[i])
		if ok {
			ranked[i].RerankScore = score
			hits++
		} else {
			misses = append(misses, i)
		}
	}
	metrics.RerankCacheHits.Add(float64(hits))
	metrics.RerankCacheMisses.Add(float64(len(misses)))

	if len(misses) > 0 {
		r.scoreMisses(ctx, query, ranked, misses)
	}

	r.logger.Info("reranking_completed",
		slog.Int("candidate_count", len(ranked)),
		slog.Int("cache_hits", hits),
		slog.Int("cache_misses", len(misses)),
		slog.String("model", r.scorer.ModelName()))

	sortByRerankScore(ranked)
	return ranked
}

// scoreMisses batch-scores the cache misses and writes fresh scores back
// to the cache. One model failure degrades the whole batch to incoming
// scores; it never splits into partial results.
func (r *Reranker) scoreMisses(ctx context.Context, query string, ranked []RankedPassage, misses []int) {
	batch := make([]domain.RerankCandidate, len(misses))
	for j, i := range misses {
		batch[j] = domain.RerankCandidate{
			ID:      ranked[i].Passage.ID.String(),
			Content: ranked[i].Passage.Content,
			Score:   ranked[i].Score,
		}
	}

	results, err := r.scorer.Score(ctx, query, batch)
	if err != nil {
		metrics.RerankFallbacks.Inc()
		r.logger.Warn("rerank_scoring_failed_using_retrieval_scores",
			slog.Int("miss_count", len(misses)),
			slog.String("error", err.Error()))
		return
	}

	scores := make(map[string]float32, len(results))
	for _, res := range results {
		scores[res.ID] = res.Score
	}

	for _, i := range misses {
		score, ok := scores[ranked[i].Passage.ID.String()]
		if !ok {
			continue
		}
		ranked[i].RerankScore = score
		r.cachePut(ctx, query, ranked[i], score)
	}
}

func (r *Reranker) cacheGet(ctx context.Context, query string, p RankedPassage) (float32, bool) {
	if r.cache == nil {
		return 0, false
	}
	key := domain.RerankCacheKey(query, p.Passage.ID)
	score, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("rerank_cache_read_failed",
			slog.String("passage_id", p.Passage.ID.String()),
			slog.String("error", err.Error()))
		return 0, false
	}
	return score, ok
}

func (r *Reranker) cachePut(ctx context.Context, query string, p RankedPassage, score float32) {
	if r.cache == nil {
		return
	}
	key := domain.RerankCacheKey(query, p.Passage.ID)
	if err := r.cache.Set(ctx, key, score, r.cacheTTL); err != nil {
		r.logger.Warn("rerank_cache_write_failed",
			slog.String("passage_id", p.Passage.ID.String()),
			slog.String("error", err.Error()))
	}
}

func sortByRerankScore(ranked []RankedPassage) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RerankScore > ranked[j].RerankScore
	})
}
