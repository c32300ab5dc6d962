// Package domain contains core business entities and rules.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Quote represents a quotation or piece of poetry in the collection.
// This is a domain entity - it has no knowledge of transport or storage.
type Quote struct {
	// ID is the store-assigned unique identifier. Zero until created.
	ID int64

	// Text is the quote or poem itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Era is an optional literary-era label such as "Romantic" or "Modern".
	Era string

	// AuthorBio is the author biography summary fetched from Wikipedia.
	// Empty until a bio fetch has been performed for this quote.
	AuthorBio string

	// CreatedAt is assigned by the store exactly once at creation.
	CreatedAt time.Time

	// UpdatedAt tracks the last successful write.
	UpdatedAt time.Time
}

// Normalize trims surrounding whitespace from the user-supplied fields.
// Call before Validate so that whitespace-only input is rejected.
func (q *Quote) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
	q.Author = strings.TrimSpace(q.Author)
	q.Era = strings.TrimSpace(q.Era)
}

// Validate checks the invariants every persisted quote must hold:
// non-empty text and non-empty author. Era and AuthorBio are passthrough.
func (q *Quote) Validate() error {
	if q.Text == "" {
		return NewValidationError("text", "must not be empty")
	}

	if q.Author == "" {
		return NewValidationError("author", "must not be empty")
	}

	return nil
}

// NewQuoteNotFound builds the canonical not-found error for a quote id.
func NewQuoteNotFound(id int64) error {
	return NewNotFoundError("quote", strconv.FormatInt(id, 10))
}

// EraCount is one row of the era report: how many quotes carry a given era.
// Quotes without an era are counted under the empty string.
type EraCount struct {
	Era        string
	QuoteCount int64
}
