package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poets-canvas/quote-service/internal/adapters/http/dto"
	"github.com/poets-canvas/quote-service/internal/app"
)

// ReportHandler handles the reporting endpoints.
type ReportHandler struct {
	service *app.QuoteService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service *app.QuoteService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the report routes on the given group.
//
//	GET /reports/quote-counts - quote counts grouped by era
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.GET("/quote-counts", h.QuoteCounts)
}

// QuoteCounts handles GET /reports/quote-counts.
// The body is an array of {era, quote_count} rows ordered by count
// descending; the collection total rides in the X-Total-Count header.
func (h *ReportHandler) QuoteCounts(c *gin.Context) {
	report, err := h.service.BuildEraReport(c.Request.Context())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(report.Total, 10))
	c.JSON(http.StatusOK, dto.EraCountsFromDomain(report.Counts))
}
