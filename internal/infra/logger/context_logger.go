package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

type ContextKey string

const (
	// Business context keys, OTel semantic convention style.
	RequestIDKey     ContextKey = "retriever.request.id"
	QueryHashKey     ContextKey = "retriever.query.hash"
	PipelineStageKey ContextKey = "retriever.pipeline.stage"
)

// ContextLogger emits records enriched with whatever business context is
// present on the request context.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLoggerFrom wraps an existing logger, so enriched records go
// through the same handler chain as the rest of the service.
func NewContextLoggerFrom(base *slog.Logger, serviceName string) *ContextLogger {
	return &ContextLogger{
		logger:      base,
		serviceName: serviceName,
	}
}

// WithContext returns a logger with context values extracted into fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if queryHash := ctx.Value(QueryHashKey); queryHash != nil {
		fields = append(fields, string(QueryHashKey), queryHash)
	}
	if stage := ctx.Value(PipelineStageKey); stage != nil {
		fields = append(fields, string(PipelineStageKey), stage)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithRequestID tags the context with the inbound request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithQueryHash tags the context with a hashed query. Raw queries stay
// out of the context so enriched logs never leak user text.
func WithQueryHash(ctx context.Context, queryHash string) context.Context {
	return context.WithValue(ctx, QueryHashKey, queryHash)
}

// WithPipelineStage tags the context with the current retrieval stage.
func WithPipelineStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, PipelineStageKey, stage)
}

// QueryHash returns a short stable digest of the query text, used to
// correlate log lines for the same query without putting user text in
// the context.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:6])
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
