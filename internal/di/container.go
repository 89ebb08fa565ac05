package di

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"news-retriever/internal/adapter/cache"
	"news-retriever/internal/adapter/inference"
	"news-retriever/internal/adapter/repository"
	"news-retriever/internal/adapter/search_http"
	"news-retriever/internal/domain"
	"news-retriever/internal/infra/config"
	"news-retriever/internal/infra/httpclient"
	"news-retriever/internal/infra/logger"
	"news-retriever/internal/usecase"
	"news-retriever/internal/usecase/retrieval"
)

// Closer is implemented by components holding connections that must be
// released on shutdown.
type Closer interface {
	Close() error
}

// ApplicationComponents holds all wired dependencies for the service.
type ApplicationComponents struct {
	SearchUsecase usecase.HybridSearchUsecase
	Handler       *search_http.Handler

	// ScoreCache is exposed so main can close it on shutdown.
	ScoreCache Closer
}

// NewApplicationComponents wires the retrieval pipeline from config and
// an established database pool. The reranker is constructed here, not
// inside the usecase, so a disabled or failed cache backend degrades at
// startup instead of mid-request.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	passageRepo := repository.NewPassageRepository(pool)

	embedderHTTP := httpclient.NewPooledClient(cfg.Embedder.Timeout)
	embedder := inference.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, cfg.Embedder.Timeout, log, embedderHTTP)

	var (
		scoreCache  domain.ScoreCache
		cacheCloser Closer
		cachePinger search_http.Pinger
	)
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisScoreCache(cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		scoreCache = redisCache
		cacheCloser = redisCache
		cachePinger = redisCache
		log.Info("score_cache_backend", slog.String("backend", "redis"))
	} else {
		memCache := cache.NewMemoryScoreCache(cfg.Cache.MemorySize, cfg.Rerank.CacheTTL)
		scoreCache = memCache
		cacheCloser = memCache
		cachePinger = memCache
		log.Info("score_cache_backend", slog.String("backend", "memory"))
	}

	var scorer domain.PairwiseScorer
	if cfg.Rerank.Enabled {
		rerankHTTP := httpclient.NewPooledClient(cfg.Rerank.Timeout)
		scorer = inference.NewCrossEncoderClient(cfg.Rerank.URL, cfg.Rerank.Model, cfg.Rerank.Timeout, log, rerankHTTP)
		log.Info("reranker_enabled",
			slog.String("url", cfg.Rerank.URL),
			slog.String("model", cfg.Rerank.Model))
	}
	reranker := retrieval.NewReranker(scorer, scoreCache, cfg.Rerank.CacheTTL, cfg.Rerank.Enabled, log)

	retrievalConfig := usecase.RetrievalConfig{
		LexicalLimit: cfg.Retrieval.LexicalLimit,
		DenseLimit:   cfg.Retrieval.DenseLimit,
		MMRPoolSize:  cfg.Retrieval.MMRPoolSize,
		MMRLambda:    cfg.Retrieval.MMRLambda,
		FinalK:       cfg.Retrieval.FinalK,
		Reranking: usecase.RerankingConfig{
			Enabled:  cfg.Rerank.Enabled,
			CacheTTL: cfg.Rerank.CacheTTL,
		},
	}
	if err := retrievalConfig.Validate(); err != nil {
		return nil, err
	}

	searchUsecase := usecase.NewHybridSearchUsecase(
		passageRepo, passageRepo, embedder, reranker, retrievalConfig,
		logger.NewContextLoggerFrom(log, "news-retriever"),
	)

	handler := search_http.NewHandler(searchUsecase, pool, cachePinger)

	return &ApplicationComponents{
		SearchUsecase: searchUsecase,
		Handler:       handler,
		ScoreCache:    cacheCloser,
	}, nil
}
