package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"news-retriever/internal/domain"
)

// crossEncoderRequest is the request payload for the scoring endpoint.
type crossEncoderRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	Model      string   `json:"model,omitempty"`
}

// crossEncoderResult is a single result in the scoring response. Index
// refers back into the request's candidate slice.
type crossEncoderResult struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// crossEncoderResponse is the response from the scoring endpoint.
type crossEncoderResponse struct {
	Results []crossEncoderResult `json:"results"`
	Model   string               `json:"model"`
}

// CrossEncoderClient implements domain.PairwiseScorer via HTTP calls to
// the inference sidecar's /v1/rerank endpoint.
type CrossEncoderClient struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewCrossEncoderClient constructs a scorer client. model is the
// cross-encoder name (e.g. bge-reranker-v2-m3). If client is nil a
// default http.Client with the given timeout is used.
func NewCrossEncoderClient(baseURL, model string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *CrossEncoderClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &CrossEncoderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  c,
		logger:  logger,
	}
}

// Score rates each candidate against the query with the cross-encoder
// model. The returned slice maps candidate IDs to model scores in the
// order the endpoint emitted them.
func (c *CrossEncoderClient) Score(ctx context.Context, query string, candidates []domain.RerankCandidate) ([]domain.RerankResult, error) {
	if len(candidates) == 0 {
		return []domain.RerankResult{}, nil
	}

	start := time.Now()

	contents := make([]string, len(candidates))
	for i, cand := range candidates {
		contents[i] = cand.Content
	}

	reqBody := crossEncoderRequest{
		Query:      query,
		Candidates: contents,
		Model:      c.model,
	}
	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/rerank", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("cross_encoder_request_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("failed to call scoring endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("cross_encoder_bad_status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", clip(string(body), 500)),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("scoring endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var scoreResp crossEncoderResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreResp); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	results := make([]domain.RerankResult, len(scoreResp.Results))
	for i, r := range scoreResp.Results {
		if r.Index < 0 || r.Index >= len(candidates) {
			return nil, fmt.Errorf("invalid result index %d for %d candidates", r.Index, len(candidates))
		}
		results[i] = domain.RerankResult{
			ID:    candidates[r.Index].ID,
			Score: r.Score,
		}
	}

	c.logger.Debug("cross_encoder_completed",
		slog.Int("result_count", len(results)),
		slog.String("model", scoreResp.Model),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))

	return results, nil
}

// ModelName returns the model identifier for logging and cache keying.
func (c *CrossEncoderClient) ModelName() string {
	return c.model
}

var _ domain.PairwiseScorer = (*CrossEncoderClient)(nil)

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
