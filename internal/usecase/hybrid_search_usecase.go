package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"news-retriever/internal/domain"
	"news-retriever/internal/infra/logger"
	"news-retriever/internal/infra/metrics"
	"news-retriever/internal/usecase/retrieval"
)

// HybridSearchInput defines the input parameters for HybridSearch.
type HybridSearchInput struct {
	Query string
	// Limit optionally caps the result count below the configured FinalK.
	// Zero means use FinalK.
	Limit int
}

// HybridSearchOutput defines the output for HybridSearch.
type HybridSearchOutput struct {
	Passages []domain.Passage
}

// HybridSearchUsecase runs the full retrieval pipeline for one query:
// lexical and dense search in parallel, per-method normalization,
// identity merge, MMR diversity selection, reranking, top-K truncation.
type HybridSearchUsecase interface {
	Execute(ctx context.Context, input HybridSearchInput) (*HybridSearchOutput, error)
}

type hybridSearchUsecase struct {
	lexical  domain.LexicalSearcher
	dense    domain.DenseSearcher
	encoder  domain.VectorEncoder
	reranker *retrieval.Reranker
	cfg      RetrievalConfig
	logger   *logger.ContextLogger
}

// NewHybridSearchUsecase creates a new HybridSearchUsecase. The reranker
// is an explicit dependency owned by the composition root so tests can
// substitute it freely. Log lines are enriched with whatever request
// context (request ID, query hash) the transport layer attached.
func NewHybridSearchUsecase(
	lexical domain.LexicalSearcher,
	dense domain.DenseSearcher,
	encoder domain.VectorEncoder,
	reranker *retrieval.Reranker,
	cfg RetrievalConfig,
	logger *logger.ContextLogger,
) HybridSearchUsecase {
	return &hybridSearchUsecase{
		lexical:  lexical,
		dense:    dense,
		encoder:  encoder,
		reranker: reranker,
		cfg:      cfg,
		logger:   logger,
	}
}

// Execute never surfaces retrieval failures to the caller: every failure
// mode maps to a defined degraded output, with the empty result as the
// caller-visible failure signal. Retrieval feeds a live chat response and
// must not crash it on a transient index, model, or cache outage.
func (u *hybridSearchUsecase) Execute(ctx context.Context, input HybridSearchInput) (*HybridSearchOutput, error) {
	start := time.Now()
	log := u.logger.WithContext(ctx)

	query := strings.TrimSpace(input.Query)
	if query == "" {
		metrics.RecordSearch("empty_query", time.Since(start).Seconds())
		return &HybridSearchOutput{Passages: []domain.Passage{}}, nil
	}

	// Embed once; the vector serves both dense search and MMR relevance.
	// Without it there is no partial retrieval, so failure aborts the run.
	embeddings, err := u.encoder.Encode(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		log.Error("query_embedding_failed",
			slog.String("query", truncate(query, 100)),
			slog.Any("error", err))
		metrics.RecordSearch("embed_failed", time.Since(start).Seconds())
		return &HybridSearchOutput{Passages: []domain.Passage{}}, nil
	}
	queryVec := embeddings[0]

	lexicalResults, denseResults := u.searchBothMethods(ctx, log, query, queryVec)
	metrics.RecordMethod("lexical", len(lexicalResults))
	metrics.RecordMethod("dense", len(denseResults))

	lexicalResults = retrieval.NormalizeScores(lexicalResults, domain.ProvenanceLexical)
	denseResults = retrieval.NormalizeScores(denseResults, domain.ProvenanceDense)

	merged := retrieval.MergeCandidates(lexicalResults, denseResults)
	if len(merged) == 0 {
		log.Info("no_candidates_found", slog.String("query", truncate(query, 100)))
		metrics.RecordSearch("no_candidates", time.Since(start).Seconds())
		return &HybridSearchOutput{Passages: []domain.Passage{}}, nil
	}

	merged = retrieval.AttachVectors(merged, len(queryVec))
	selected := retrieval.SelectMMR(merged, queryVec, u.cfg.MMRLambda, u.cfg.MMRPoolSize)

	ranked := u.reranker.Rerank(ctx, query, selected)

	limit := u.cfg.FinalK
	if input.Limit > 0 && input.Limit < limit {
		limit = input.Limit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	passages := make([]domain.Passage, len(ranked))
	for i, r := range ranked {
		passages[i] = r.ToPassage()
	}

	log.Info("hybrid_search_completed",
		slog.String("query", truncate(query, 100)),
		slog.Int("lexical_count", len(lexicalResults)),
		slog.Int("dense_count", len(denseResults)),
		slog.Int("merged_count", len(merged)),
		slog.Int("selected_count", len(selected)),
		slog.Int("final_count", len(passages)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	metrics.RecordSearch("ok", time.Since(start).Seconds())

	return &HybridSearchOutput{Passages: passages}, nil
}

// searchBothMethods runs lexical and dense search concurrently. A failed
// method contributes an empty list; the error never leaves this function.
func (u *hybridSearchUsecase) searchBothMethods(ctx context.Context, log *slog.Logger, query string, queryVec []float32) ([]domain.RawCandidate, []domain.RawCandidate) {
	var lexicalResults, denseResults []domain.RawCandidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := u.lexical.SearchLexical(gctx, query, u.cfg.LexicalLimit)
		if err != nil {
			metrics.MethodErrors.WithLabelValues("lexical").Inc()
			log.Warn("lexical_search_failed", slog.String("error", err.Error()))
			return nil
		}
		lexicalResults = results
		return nil
	})
	g.Go(func() error {
		results, err := u.dense.SearchDense(gctx, queryVec, u.cfg.DenseLimit)
		if err != nil {
			metrics.MethodErrors.WithLabelValues("dense").Inc()
			log.Warn("dense_search_failed", slog.String("error", err.Error()))
			return nil
		}
		denseResults = results
		return nil
	})
	_ = g.Wait()

	return lexicalResults, denseResults
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
