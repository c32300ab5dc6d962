// Package main is the entry point for the quote service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poets-canvas/quote-service/internal/adapters/clients"
	"github.com/poets-canvas/quote-service/internal/adapters/clients/acl"
	"github.com/poets-canvas/quote-service/internal/adapters/http"
	"github.com/poets-canvas/quote-service/internal/adapters/http/handlers"
	"github.com/poets-canvas/quote-service/internal/adapters/storage/memory"
	"github.com/poets-canvas/quote-service/internal/adapters/storage/postgres"
	"github.com/poets-canvas/quote-service/internal/adapters/storage/sqlite"
	"github.com/poets-canvas/quote-service/internal/app"
	"github.com/poets-canvas/quote-service/internal/platform/config"
	"github.com/poets-canvas/quote-service/internal/platform/logging"
	"github.com/poets-canvas/quote-service/internal/platform/telemetry"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// quoteStore is the persistence surface the rest of main needs: the
// repository port plus a health check.
type quoteStore interface {
	ports.QuoteRepository
	ports.HealthChecker
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the quote store selected by configuration
	store, closeStore, err := openStore(ctx, &cfg.Store)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	if closeStore != nil {
		defer func() {
			if closeErr := closeStore(); closeErr != nil {
				logger.Error("store close error", slog.Any("error", closeErr))
			}
		}()
	}

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 7. Create HTTP client for the Wikipedia API
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Wikipedia.BaseURL,
		ServiceName: cfg.Services.Wikipedia.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 8. Create Wikipedia bio adapter (ACL pattern)
	bioProvider, err := acl.NewWikipedia(acl.WikipediaConfig{
		Client:      httpClient,
		BaseURL:     cfg.Services.Wikipedia.BaseURL,
		ServiceName: cfg.Services.Wikipedia.Name,
	})
	if err != nil {
		return fmt.Errorf("creating wikipedia adapter: %w", err)
	}

	if err := healthRegistry.Register(bioProvider); err != nil {
		return fmt.Errorf("registering wikipedia health check: %w", err)
	}

	// 9. Create quote service (application layer)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Repository:  store,
		BioProvider: bioProvider,
		Logger:      logger,
	})

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	reportHandler := handlers.NewReportHandler(quoteService)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		HealthHandler: healthHandler,
		QuoteHandler:  quoteHandler,
		ReportHandler: reportHandler,
		Timeout:       http.DefaultRequestTimeout,
	})

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// openStore opens the persistence backend selected by cfg.Driver.
// The returned close function is nil for backends without resources to
// release.
func openStore(ctx context.Context, cfg *config.StoreConfig) (quoteStore, func() error, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		return memory.NewStore(), nil, nil

	case config.StoreDriverSQLite:
		store, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil

	case config.StoreDriverPostgres:
		store, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
