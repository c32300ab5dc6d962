package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poets-canvas/quote-service/internal/adapters/http/handlers"
	"github.com/poets-canvas/quote-service/internal/adapters/http/middleware"
	"github.com/poets-canvas/quote-service/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when the config gives none.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig carries everything SetupRouter needs to wire the engine.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName labels OpenTelemetry spans and metrics.
	ServiceName string

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	ReportHandler *handlers.ReportHandler

	// Timeout is the per-request deadline on the /api/v1 group.
	// Zero disables it.
	Timeout time.Duration
}

// SetupRouter mounts middleware and routes on the engine.
//
// Global middleware runs in this order: Recovery must be outermost so a
// panic anywhere below still produces a response; RequestID and
// CorrelationID run before telemetry and logging so both see the IDs.
// Health endpoints live under /-/ outside the timeout so slow probes
// never flap the deployment; the quote and report APIs live under
// /api/v1 behind the deadline.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.ServiceName),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(apiV1)
	}

	if cfg.ReportHandler != nil {
		cfg.ReportHandler.RegisterRoutes(apiV1)
	}
}

// SetupMinimalRouter wires only panic recovery, request IDs and the
// health endpoints. Integration tests use it to probe readiness without
// the full API surface.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}
