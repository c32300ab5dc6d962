// Package memory provides an in-memory quote store.
// It backs local development and tests where no database is wanted.
// All data is lost on process exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// Store is a thread-safe in-memory implementation of ports.QuoteRepository.
type Store struct {
	mu     sync.RWMutex
	quotes map[int64]*domain.Quote
	nextID int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		quotes: make(map[int64]*domain.Quote),
		nextID: 1,
	}
}

// Create persists a new quote, assigning its id and timestamps.
func (s *Store) Create(_ context.Context, quote *domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	quote.ID = s.nextID
	quote.CreatedAt = now
	quote.UpdatedAt = now
	s.nextID++

	stored := *quote
	s.quotes[quote.ID] = &stored

	return nil
}

// GetByID retrieves a quote by id.
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.quotes[id]
	if !ok {
		return nil, domain.NewQuoteNotFound(id)
	}

	quote := *stored

	return &quote, nil
}

// List returns quotes matching the filter in ascending id order.
func (s *Store) List(_ context.Context, filter ports.QuoteFilter) ([]*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.quotes))
	for id := range s.quotes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	quotes := make([]*domain.Quote, 0, len(ids))

	for _, id := range ids {
		stored := s.quotes[id]

		if id <= filter.AfterID {
			continue
		}

		if filter.Era != nil && stored.Era != *filter.Era {
			continue
		}

		quote := *stored
		quotes = append(quotes, &quote)

		if filter.Limit > 0 && len(quotes) == filter.Limit {
			break
		}
	}

	return quotes, nil
}

// Update overwrites an existing quote's mutable fields and bumps UpdatedAt.
func (s *Store) Update(_ context.Context, quote *domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.quotes[quote.ID]
	if !ok {
		return domain.NewQuoteNotFound(quote.ID)
	}

	stored.Text = quote.Text
	stored.Author = quote.Author
	stored.Era = quote.Era
	stored.AuthorBio = quote.AuthorBio
	stored.UpdatedAt = time.Now().UTC()

	quote.CreatedAt = stored.CreatedAt
	quote.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete removes a quote permanently.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[id]; !ok {
		return domain.NewQuoteNotFound(id)
	}

	delete(s.quotes, id)

	return nil
}

// CountByEra groups quotes by era, highest count first, ties by era name.
func (s *Store) CountByEra(_ context.Context) ([]domain.EraCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byEra := make(map[string]int64)
	for _, quote := range s.quotes {
		byEra[quote.Era]++
	}

	counts := make([]domain.EraCount, 0, len(byEra))
	for era, count := range byEra {
		counts = append(counts, domain.EraCount{Era: era, QuoteCount: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].QuoteCount != counts[j].QuoteCount {
			return counts[i].QuoteCount > counts[j].QuoteCount
		}

		return counts[i].Era < counts[j].Era
	})

	return counts, nil
}

// Count returns the total number of quotes.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.quotes)), nil
}

// Name identifies the store in health check responses.
func (s *Store) Name() string { return "memory" }

// Check reports the store as healthy; an in-process map has no failure mode
// worth probing.
func (s *Store) Check(_ context.Context) error { return nil }
