// Package middleware provides the gin middleware chain for the quote
// API: identifiers, logging, recovery and timeouts.
package middleware

import "context"

type contextKey string

const (
	ctxKeyRequestID contextKey = "request_id"

	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestIDFromContext returns the request ID stored in a plain
// context.Context, or "" when absent. The outbound HTTP client reads it
// here to stamp X-Request-ID on Wikipedia calls.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}

	return ""
}

// CorrelationIDFromContext returns the correlation ID stored in a plain
// context.Context, or "" when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKeyCorrelationID).(string); ok {
		return id
	}

	return ""
}

// ContextWithRequestID stores a request ID where
// RequestIDFromContext finds it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID where
// CorrelationIDFromContext finds it.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}
