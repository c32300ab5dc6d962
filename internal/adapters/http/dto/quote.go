package dto

import (
	"time"

	"github.com/poets-canvas/quote-service/internal/domain"
)

// CreateQuoteRequest is the body for POST /api/v1/quotes.
// The id and timestamps are server-assigned and not accepted here.
type CreateQuoteRequest struct {
	Text   string `json:"text" validate:"required,notempty"`
	Author string `json:"author" validate:"required,notempty"`
	Era    string `json:"era" validate:"omitempty,max=100"`
}

// UpdateQuoteRequest is the body for PUT/PATCH /api/v1/quotes/:id.
// All fields are optional; omitted fields keep their previous values.
type UpdateQuoteRequest struct {
	Text   *string `json:"text" validate:"omitempty,notempty"`
	Author *string `json:"author" validate:"omitempty,notempty"`
	Era    *string `json:"era" validate:"omitempty,max=100"`
}

// ListQuotesQuery carries the query parameters for GET /api/v1/quotes.
// Without a limit the full collection is returned.
type ListQuotesQuery struct {
	Era    string `form:"era"`
	Cursor int64  `form:"cursor" validate:"omitempty,gte=0"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=500"`
}

// QuoteResponse is the public representation of a quote.
type QuoteResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Era       string    `json:"era,omitempty"`
	AuthorBio string    `json:"author_bio_summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteFromDomain converts a domain quote to its response representation.
func QuoteFromDomain(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        quote.ID,
		Text:      quote.Text,
		Author:    quote.Author,
		Era:       quote.Era,
		AuthorBio: quote.AuthorBio,
		CreatedAt: quote.CreatedAt,
		UpdatedAt: quote.UpdatedAt,
	}
}

// QuotesFromDomain converts a slice of domain quotes.
func QuotesFromDomain(quotes []*domain.Quote) []QuoteResponse {
	responses := make([]QuoteResponse, 0, len(quotes))
	for _, quote := range quotes {
		responses = append(responses, QuoteFromDomain(quote))
	}

	return responses
}

// ListQuotesResponse is the body for GET /api/v1/quotes.
// NextCursor is set only when a limit was requested and more rows remain;
// pass it back as the `cursor` query parameter to continue.
type ListQuotesResponse struct {
	Quotes     []QuoteResponse `json:"quotes"`
	NextCursor int64           `json:"next_cursor,omitempty"`
}

// FetchBioResponse is the body for POST /api/v1/quotes/:id/fetch-bio.
type FetchBioResponse struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

// EraCountResponse is one row of the quote count report.
type EraCountResponse struct {
	Era        string `json:"era"`
	QuoteCount int64  `json:"quote_count"`
}

// EraCountsFromDomain converts the domain report rows.
func EraCountsFromDomain(counts []domain.EraCount) []EraCountResponse {
	responses := make([]EraCountResponse, 0, len(counts))
	for _, count := range counts {
		responses = append(responses, EraCountResponse{
			Era:        count.Era,
			QuoteCount: count.QuoteCount,
		})
	}

	return responses
}
