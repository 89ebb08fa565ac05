package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"news-retriever/internal/domain"
)

// OllamaEmbedder generates embeddings via an Ollama-compatible /api/embed
// endpoint.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaEmbedder constructs an embedder client. If client is nil a
// default http.Client with the given timeout is used.
func NewOllamaEmbedder(baseURL, model string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *OllamaEmbedder {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  c,
		logger:  logger,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *OllamaEmbedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()

	reqBody := embedRequest{
		Model: e.model,
		Input: texts,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	url := fmt.Sprintf("%s/api/embed", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("embedding_request_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("failed to call embedder: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("embedding_request_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("embedder returned status: %d", resp.StatusCode)
	}

	var respBody embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(respBody.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(respBody.Embeddings))
	}

	e.logger.Debug("embedding_completed",
		slog.Int("text_count", len(texts)),
		slog.String("model", e.model),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))

	return respBody.Embeddings, nil
}

func (e *OllamaEmbedder) Version() string {
	return e.model
}

var _ domain.VectorEncoder = (*OllamaEmbedder)(nil)
