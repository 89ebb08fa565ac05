package search_http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"news-retriever/internal/infra/logger"
	"news-retriever/internal/usecase"
)

// Pinger reports whether a backing service is reachable. Both the
// Postgres pool and the score cache satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SearchRequest is the body for POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResult is one retrieved passage in the response.
type SearchResult struct {
	ID           string  `json:"id"`
	ArticleID    string  `json:"article_id"`
	Content      string  `json:"content"`
	Score        float32 `json:"score"`
	RerankScore  float32 `json:"rerank_score"`
	Provenance   string  `json:"provenance"`
	Title        string  `json:"title,omitempty"`
	URL          string  `json:"url,omitempty"`
	SourceDomain string  `json:"source_domain,omitempty"`
	PublishedAt  string  `json:"published_at,omitempty"`
}

// SearchResponse is the body for POST /v1/search responses. Context is
// the prompt-ready numbered block; Sources aligns with its [i] markers.
type SearchResponse struct {
	Results []SearchResult      `json:"results"`
	Context string              `json:"context"`
	Sources []usecase.SourceRef `json:"sources"`
}

// Handler exposes the retrieval pipeline over HTTP.
type Handler struct {
	search usecase.HybridSearchUsecase
	db     Pinger
	cache  Pinger
}

// NewHandler wires the search usecase and the health-check targets. db
// and cache may be nil when the corresponding backend is not configured.
func NewHandler(search usecase.HybridSearchUsecase, db, cache Pinger) *Handler {
	return &Handler{search: search, db: db, cache: cache}
}

// Register mounts the handler's routes on the given echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/search", h.Search)
	e.GET("/v1/healthz", h.Healthz)
}

// Search runs hybrid retrieval for the posted query.
// (POST /v1/search)
func (h *Handler) Search(ctx echo.Context) error {
	var req SearchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "missing query"})
	}
	if req.Limit < 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "limit must not be negative"})
	}

	reqCtx := logger.WithQueryHash(ctx.Request().Context(), logger.QueryHash(query))
	output, err := h.search.Execute(reqCtx, usecase.HybridSearchInput{
		Query: query,
		Limit: req.Limit,
	})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	results := make([]SearchResult, 0, len(output.Passages))
	for _, p := range output.Passages {
		publishedAt := ""
		if !p.PublishedAt.IsZero() {
			publishedAt = p.PublishedAt.Format(time.RFC3339)
		}
		results = append(results, SearchResult{
			ID:           p.ID.String(),
			ArticleID:    p.ArticleID,
			Content:      p.Content,
			Score:        p.Score,
			RerankScore:  p.RerankScore,
			Provenance:   string(p.Provenance),
			Title:        p.Title,
			URL:          p.URL,
			SourceDomain: p.SourceDomain,
			PublishedAt:  publishedAt,
		})
	}

	contextBlock, sources := usecase.FormatPassages(output.Passages)

	return ctx.JSON(http.StatusOK, SearchResponse{
		Results: results,
		Context: contextBlock,
		Sources: sources,
	})
}

// Healthz reports readiness of the service and its backends.
// (GET /v1/healthz)
func (h *Handler) Healthz(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(reqCtx); err != nil {
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(reqCtx); err != nil {
			checks["cache"] = "down"
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	return ctx.JSON(status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
