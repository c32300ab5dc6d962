package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/poets-canvas/quote-service/internal/platform/logging"
)

const (
	// HeaderCorrelationID carries the cross-service transaction ID. A
	// request ID names one hop; the correlation ID follows the whole
	// transaction through every service it touches.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the
	// correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID propagates an upstream X-Correlation-ID or mints a UUID
// v4 when this service originates the transaction. Like RequestID, the
// value lands in the gin context, the response header, the request
// context and the context logger.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		contextEnricher: func(ctx context.Context, id string) context.Context {
			return logging.WithCorrelationID(ContextWithCorrelationID(ctx, id), id)
		},
	})
}

// GetCorrelationID reads the correlation ID from the gin context, or "".
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

// MustGetCorrelationID is GetCorrelationID with "unknown" instead of "".
func MustGetCorrelationID(c *gin.Context) string {
	if id := GetCorrelationID(c); id != "" {
		return id
	}

	return "unknown"
}
