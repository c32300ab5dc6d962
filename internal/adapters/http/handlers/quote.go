package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poets-canvas/quote-service/internal/adapters/http/dto"
	"github.com/poets-canvas/quote-service/internal/app"
	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// QuoteHandler handles the quote resource endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers the quote resource routes on the given group.
//
//	GET    /quotes               - list quotes (optional era filter, cursor pagination)
//	POST   /quotes               - create a quote
//	GET    /quotes/:id           - get a single quote
//	PUT    /quotes/:id           - update a quote (partial, same as PATCH)
//	PATCH  /quotes/:id           - update a quote (partial)
//	DELETE /quotes/:id           - delete a quote
//	POST   /quotes/:id/fetch-bio - fetch and store the author's Wikipedia bio
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.GET("/:id", h.Get)
	quotes.PUT("/:id", h.Update)
	quotes.PATCH("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
	quotes.POST("/:id/fetch-bio", h.FetchBio)
}

// List handles GET /quotes.
// Without query parameters it returns the full collection in id order.
// An `era` parameter filters by exact era match; `limit` and `cursor`
// page through large collections.
func (h *QuoteHandler) List(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		respondBindError(c, err, "invalid query parameters")
		return
	}

	filter := ports.QuoteFilter{
		AfterID: query.Cursor,
		Limit:   query.Limit,
	}
	if query.Era != "" {
		filter.Era = &query.Era
	}

	// Fetch one extra row to know whether another page exists.
	if filter.Limit > 0 {
		filter.Limit++
	}

	quotes, err := h.service.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	resp := dto.ListQuotesResponse{}

	if query.Limit > 0 && len(quotes) > query.Limit {
		quotes = quotes[:query.Limit]
		resp.NextCursor = quotes[len(quotes)-1].ID
	}

	resp.Quotes = dto.QuotesFromDomain(quotes)

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err, "request body is not valid JSON")
		return
	}

	quote, err := h.service.CreateQuote(c.Request.Context(), app.CreateQuoteParams{
		Text:   req.Text,
		Author: req.Author,
		Era:    req.Era,
	})
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.QuoteFromDomain(quote))
}

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(c.Request.Context(), id)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteFromDomain(quote))
}

// Update handles PUT and PATCH /quotes/:id.
// Both verbs apply a partial update: omitted fields keep their previous
// values, present fields must pass validation.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err, "request body is not valid JSON")
		return
	}

	quote, err := h.service.UpdateQuote(c.Request.Context(), id, app.UpdateQuoteParams{
		Text:   req.Text,
		Author: req.Author,
		Era:    req.Era,
	})
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteFromDomain(quote))
}

// Delete handles DELETE /quotes/:id. Deletion is permanent; a repeated
// delete of the same id returns 404.
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteQuote(c.Request.Context(), id); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FetchBio handles POST /quotes/:id/fetch-bio.
// On success the summary has already been persisted on the quote.
func (h *QuoteHandler) FetchBio(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.service.FetchAuthorBio(c.Request.Context(), id)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FetchBioResponse{
		Message: fmt.Sprintf("Successfully fetched and saved bio for %s.", quote.Author),
		Summary: quote.AuthorBio,
	})
}

// quoteID parses the :id path parameter. A non-numeric id means the URL
// names no existing resource, so it responds 404 rather than 400.
func quoteID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		dto.RespondWithError(c, domain.NewNotFoundError("quote", raw))
		return 0, false
	}

	return id, true
}

// respondBindError translates binding and validation failures from the
// dto layer into the error envelope.
func respondBindError(c *gin.Context, err error, bindMessage string) {
	if errors.Is(err, dto.ErrValidation) {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, bindMessage)
}
