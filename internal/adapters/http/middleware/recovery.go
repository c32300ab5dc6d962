package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/poets-canvas/quote-service/internal/adapters/http/dto"
	"github.com/poets-canvas/quote-service/internal/platform/logging"
)

// Recovery converts a panic anywhere in the handler chain into a logged
// 500 with the standard error envelope. It goes first in the chain so
// nothing escapes it. The trace ID rides along in the response body;
// the stack only ever goes to the log.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				ctxLogger := logging.FromContext(c.Request.Context())
				traceID := traceIDFromRequest(c)

				ctxLogger.Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(stack)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
					slog.String("trace_id", traceID),
				)

				writePanicResponse(c, traceID)
			}
		}()

		c.Next()
	}
}

// RecoveryWithWriter additionally hands the panic value and stack to a
// caller-supplied sink before responding. Useful when stacks need to go
// somewhere besides the structured log.
func RecoveryWithWriter(logger *slog.Logger, stackHandler func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				if stackHandler != nil {
					stackHandler(r, stack)
				}

				ctxLogger := logging.FromContext(c.Request.Context())
				traceID := traceIDFromRequest(c)

				ctxLogger.Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(stack)),
					slog.String("trace_id", traceID),
				)

				writePanicResponse(c, traceID)
			}
		}()

		c.Next()
	}
}

// traceIDFromRequest extracts the active trace ID, or "" when the
// request carries no recorded span.
func traceIDFromRequest(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// writePanicResponse sends the 500 envelope unless the handler already
// wrote to the connection, in which case all it can do is abort.
func writePanicResponse(c *gin.Context, traceID string) {
	errResp := dto.NewErrorResponse(
		dto.ErrorCodeInternal,
		"an internal error occurred",
	)
	if traceID != "" {
		errResp.TraceID = traceID
	}

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
	} else {
		c.Abort()
	}
}
