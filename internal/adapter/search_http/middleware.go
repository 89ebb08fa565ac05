package search_http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"news-retriever/internal/infra/logger"
)

// RequestContext returns middleware that tags every request context with
// a request identifier, so logs emitted anywhere down the pipeline carry
// it via ContextLogger.WithContext. The ID is echoed back in the
// X-Request-ID response header for client-side correlation.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := logger.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
