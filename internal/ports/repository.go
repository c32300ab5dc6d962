// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrValidation, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/poets-canvas/quote-service/internal/domain"
)

// QuoteFilter narrows a List call. The zero value returns the full
// collection in id order.
type QuoteFilter struct {
	// Era filters to quotes whose era matches exactly. Nil means no filter.
	Era *string

	// AfterID returns only quotes with id greater than this value.
	// Used for cursor pagination; zero means start from the beginning.
	AfterID int64

	// Limit caps the number of quotes returned. Zero means no limit.
	Limit int
}

// QuoteRepository is the persistence contract for quotes.
// Implementations own id assignment, timestamps, and write serialization;
// the application layer never sees storage-level errors, only domain errors.
type QuoteRepository interface {
	// Create persists a new quote, assigning its ID, CreatedAt and
	// UpdatedAt in place. The quote must already be validated.
	Create(ctx context.Context, quote *domain.Quote) error

	// GetByID retrieves a quote by its identifier.
	// Returns domain.ErrNotFound if the quote does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)

	// List returns quotes matching the filter in ascending id order.
	// An empty collection is a valid result, not an error.
	List(ctx context.Context, filter QuoteFilter) ([]*domain.Quote, error)

	// Update overwrites an existing quote's mutable fields and bumps
	// UpdatedAt. Returns domain.ErrNotFound if the id does not exist.
	Update(ctx context.Context, quote *domain.Quote) error

	// Delete removes a quote permanently.
	// Returns domain.ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id int64) error

	// CountByEra groups quotes by era and returns the counts in
	// descending count order (ties broken by era ascending).
	CountByEra(ctx context.Context) ([]domain.EraCount, error)

	// Count returns the total number of quotes.
	Count(ctx context.Context) (int64, error)
}

// AuthorBioProvider fetches a short author biography from an external
// source. Implementations map transport failures to domain.ErrUnavailable
// and a missing article to domain.ErrNotFound.
type AuthorBioProvider interface {
	// FetchBio returns a plain-text biography summary for the author.
	FetchBio(ctx context.Context, author string) (string, error)
}
