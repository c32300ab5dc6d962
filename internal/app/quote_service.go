// Package app contains application services that orchestrate use cases.
// This is the application layer - it coordinates domain logic and
// infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging)
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Database queries (that's storage adapters)
//   - Core domain rules (that's the domain layer)
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/platform/logging"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// QuoteService orchestrates quote-related use cases.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	repo   ports.QuoteRepository
	bios   ports.AuthorBioProvider
	exec   *Executor
	logger *slog.Logger
}

// QuoteServiceConfig contains dependencies for the quote service.
type QuoteServiceConfig struct {
	// Repository is the quote persistence port. Required.
	Repository ports.QuoteRepository

	// BioProvider fetches author biographies. Optional; when nil the
	// fetch-bio use case reports the provider as unavailable.
	BioProvider ports.AuthorBioProvider

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.QuoteService"))

	return &QuoteService{
		repo:   cfg.Repository,
		bios:   cfg.BioProvider,
		exec:   NewExecutor(logger),
		logger: logger,
	}
}

// ctxLogger returns the request-scoped logger when one was attached by the
// HTTP middleware, falling back to the process-wide default.
func (s *QuoteService) ctxLogger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ListQuotes returns quotes matching the filter in ascending id order.
func (s *QuoteService) ListQuotes(ctx context.Context, filter ports.QuoteFilter) ([]*domain.Quote, error) {
	quotes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return quotes, nil
}

// GetQuote retrieves a single quote by its identifier.
func (s *QuoteService) GetQuote(ctx context.Context, id int64) (*domain.Quote, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting quote: %w", err)
	}

	return quote, nil
}

// CreateQuoteParams carries the client-settable fields for a new quote.
// The id and timestamps are store-assigned and never accepted from callers.
type CreateQuoteParams struct {
	Text   string
	Author string
	Era    string
}

// CreateQuote validates and persists a new quote.
// Returns domain.ErrValidation when text or author is empty after trimming;
// nothing is persisted in that case.
func (s *QuoteService) CreateQuote(ctx context.Context, params CreateQuoteParams) (*domain.Quote, error) {
	quote := &domain.Quote{
		Text:   params.Text,
		Author: params.Author,
		Era:    params.Era,
	}

	quote.Normalize()

	if err := quote.Validate(); err != nil {
		return nil, fmt.Errorf("validating quote: %w", err)
	}

	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}

	s.ctxLogger(ctx).InfoContext(ctx, "quote created",
		slog.Int64("quote_id", quote.ID),
		slog.String("author", quote.Author),
	)

	return quote, nil
}

// UpdateQuoteParams carries a partial update. Nil fields keep their
// previous value; present fields overwrite.
type UpdateQuoteParams struct {
	Text   *string
	Author *string
	Era    *string
}

// UpdateQuote applies a partial update to an existing quote.
// Returns domain.ErrNotFound if the id does not exist and
// domain.ErrValidation if a required field would become empty.
func (s *QuoteService) UpdateQuote(ctx context.Context, id int64, params UpdateQuoteParams) (*domain.Quote, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading quote for update: %w", err)
	}

	if params.Text != nil {
		quote.Text = *params.Text
	}

	if params.Author != nil {
		quote.Author = *params.Author
	}

	if params.Era != nil {
		quote.Era = *params.Era
	}

	quote.Normalize()

	if err := quote.Validate(); err != nil {
		return nil, fmt.Errorf("validating quote update: %w", err)
	}

	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("updating quote: %w", err)
	}

	s.ctxLogger(ctx).InfoContext(ctx, "quote updated",
		slog.Int64("quote_id", quote.ID),
	)

	return quote, nil
}

// DeleteQuote removes a quote permanently. A second delete of the same id
// returns domain.ErrNotFound.
func (s *QuoteService) DeleteQuote(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting quote: %w", err)
	}

	s.ctxLogger(ctx).InfoContext(ctx, "quote deleted",
		slog.Int64("quote_id", id),
	)

	return nil
}

// bioFetch is the intermediate state of the fetch-bio operation.
type bioFetch struct {
	quote   *domain.Quote
	summary string
}

// FetchAuthorBio fetches the author biography for a quote from the
// external bio provider and persists it on the quote record.
//
// The operation runs through the transactional executor: the quote and the
// external summary are fetched and verified before any state is written, so
// a provider failure never leaves a half-updated record.
func (s *QuoteService) FetchAuthorBio(ctx context.Context, id int64) (*domain.Quote, error) {
	op := Operation[int64, bioFetch, bioFetch, *domain.Quote]{
		Name: "fetch_author_bio",

		Validate: func(ctx context.Context, id int64) error {
			if s.bios == nil {
				return domain.NewUnavailableError("author-bio", "no provider configured")
			}

			return nil
		},

		Perform: func(ctx context.Context, id int64) (bioFetch, error) {
			quote, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return bioFetch{}, err
			}

			summary, err := s.bios.FetchBio(ctx, quote.Author)
			if err != nil {
				return bioFetch{}, err
			}

			return bioFetch{quote: quote, summary: summary}, nil
		},

		Verify: func(ctx context.Context, _ int64, fetched bioFetch) (bioFetch, error) {
			if fetched.summary == "" {
				return bioFetch{}, domain.NewNotFoundError("author bio", fetched.quote.Author)
			}

			return fetched, nil
		},

		Archive: func(ctx context.Context, _ int64, verified bioFetch) error {
			verified.quote.AuthorBio = verified.summary

			return s.repo.Update(ctx, verified.quote)
		},

		Respond: func(ctx context.Context, _ int64, verified bioFetch) (*domain.Quote, error) {
			return verified.quote, nil
		},
	}

	quote, err := Execute(ctx, s.exec, op, id)
	if err != nil {
		// Surface the underlying domain error; the step context has
		// already been logged by the executor.
		var execErr *ExecutionError
		if errors.As(err, &execErr) && execErr.Cause != nil {
			return nil, execErr.Cause
		}

		return nil, err
	}

	s.ctxLogger(ctx).InfoContext(ctx, "author bio saved",
		slog.Int64("quote_id", quote.ID),
		slog.String("author", quote.Author),
	)

	return quote, nil
}

// EraReport aggregates quote counts per literary era.
type EraReport struct {
	Counts []domain.EraCount
	Total  int64
}

// BuildEraReport gathers per-era counts and the collection total.
// The two aggregations are independent reads and run concurrently.
func (s *QuoteService) BuildEraReport(ctx context.Context) (*EraReport, error) {
	counts, total, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.EraCount, error) {
			return s.repo.CountByEra(ctx)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("building era report: %w", err)
	}

	return &EraReport{Counts: counts, Total: total}, nil
}
