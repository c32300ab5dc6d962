package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poets-canvas/quote-service/internal/adapters/http/dto"
	"github.com/poets-canvas/quote-service/internal/adapters/storage/memory"
	"github.com/poets-canvas/quote-service/internal/app"
	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// fakeBios is an in-memory AuthorBioProvider for handler tests.
type fakeBios struct {
	bios map[string]string
	err  error
}

func (f *fakeBios) FetchBio(_ context.Context, author string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return f.bios[author], nil
}

// newTestRouter wires the full handler stack on a memory store.
func newTestRouter(t *testing.T, bios ports.AuthorBioProvider) (*gin.Engine, *app.QuoteService) {
	t.Helper()

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository:  memory.NewStore(),
		BioProvider: bios,
	})

	router := gin.New()
	api := router.Group("/api/v1")
	NewQuoteHandler(service).RegisterRoutes(api)
	NewReportHandler(service).RegisterRoutes(api)

	return router, service
}

// doJSON performs a request with an optional JSON body.
func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

// seed creates a quote directly through the service.
func seed(t *testing.T, service *app.QuoteService, text, author, era string) *domain.Quote {
	t.Helper()

	quote, err := service.CreateQuote(context.Background(), app.CreateQuoteParams{
		Text:   text,
		Author: author,
		Era:    era,
	})
	require.NoError(t, err)

	return quote
}

func TestQuoteHandler_Create(t *testing.T) {
	t.Run("valid body returns 201", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/quotes",
			`{"text":"Be yourself; everyone else is already taken.","author":"Oscar Wilde","era":"Victorian"}`)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "Oscar Wilde", resp.Author)
		assert.Equal(t, "Victorian", resp.Era)
		assert.False(t, resp.CreatedAt.IsZero())
		assert.False(t, resp.UpdatedAt.IsZero())
	})

	t.Run("client-supplied id and created_at are ignored", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/quotes",
			`{"id":999,"created_at":"1999-01-01T00:00:00Z","text":"Tyger Tyger, burning bright","author":"William Blake"}`)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID, "id is server-assigned")
		assert.False(t, resp.CreatedAt.IsZero())
		assert.NotEqual(t, 1999, resp.CreatedAt.Year(), "created_at is server-assigned")
	})

	t.Run("missing author returns 400 with field detail", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/quotes", `{"text":"Tyger Tyger"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "author")
	})

	t.Run("whitespace-only text returns 400", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/quotes", `{"text":"   ","author":"Oscar Wilde"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json returns 400 bad request", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/quotes", `{"text": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeBadRequest, resp.Error.Code)
	})
}

func TestQuoteHandler_List(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/quotes", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Quotes)
		assert.Zero(t, resp.NextCursor)
	})

	t.Run("returns all quotes in id order", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "first", "Author A", "Romantic")
		seed(t, service, "second", "Author B", "Victorian")
		seed(t, service, "third", "Author C", "")

		w := doJSON(router, http.MethodGet, "/api/v1/quotes", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Quotes, 3)
		assert.Equal(t, int64(1), resp.Quotes[0].ID)
		assert.Equal(t, int64(3), resp.Quotes[2].ID)
		assert.Zero(t, resp.NextCursor)
	})

	t.Run("era filter", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "first", "Author A", "Romantic")
		seed(t, service, "second", "Author B", "Victorian")
		seed(t, service, "third", "Author C", "Romantic")

		w := doJSON(router, http.MethodGet, "/api/v1/quotes?era=Romantic", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Quotes, 2)
		for _, quote := range resp.Quotes {
			assert.Equal(t, "Romantic", quote.Era)
		}
	})

	t.Run("pagination with cursor", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		for i := 0; i < 5; i++ {
			seed(t, service, "quote", "Author", "")
		}

		w := doJSON(router, http.MethodGet, "/api/v1/quotes?limit=2", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var page1 dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page1))
		require.Len(t, page1.Quotes, 2)
		assert.Equal(t, int64(2), page1.NextCursor)

		w = doJSON(router, http.MethodGet, "/api/v1/quotes?limit=2&cursor=2", "")
		var page2 dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page2))
		require.Len(t, page2.Quotes, 2)
		assert.Equal(t, int64(3), page2.Quotes[0].ID)
		assert.Equal(t, int64(4), page2.NextCursor)

		w = doJSON(router, http.MethodGet, "/api/v1/quotes?limit=2&cursor=4", "")
		var page3 dto.ListQuotesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page3))
		require.Len(t, page3.Quotes, 1)
		assert.Zero(t, page3.NextCursor)
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/quotes?limit=9999", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuoteHandler_Get(t *testing.T) {
	t.Run("existing quote", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		created := seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

		w := doJSON(router, http.MethodGet, "/api/v1/quotes/1", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, "Be yourself", resp.Text)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/quotes/99", "")

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
	})

	t.Run("non-numeric id returns 404", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/quotes/abc", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestQuoteHandler_Update(t *testing.T) {
	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

		w := doJSON(router, http.MethodPatch, "/api/v1/quotes/1", `{"era":"Aesthetic"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Aesthetic", resp.Era)
		assert.Equal(t, "Be yourself", resp.Text)
		assert.Equal(t, "Oscar Wilde", resp.Author)
	})

	t.Run("put behaves like patch", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

		w := doJSON(router, http.MethodPut, "/api/v1/quotes/1", `{"text":"Be yourself; everyone else is already taken."}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Be yourself; everyone else is already taken.", resp.Text)
		assert.Equal(t, "Oscar Wilde", resp.Author)
	})

	t.Run("blanking a required field returns 400", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

		w := doJSON(router, http.MethodPatch, "/api/v1/quotes/1", `{"author":"   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		// The stored record is untouched.
		w = doJSON(router, http.MethodGet, "/api/v1/quotes/1", "")
		var resp dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Oscar Wilde", resp.Author)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodPatch, "/api/v1/quotes/42", `{"era":"Modern"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestQuoteHandler_Delete(t *testing.T) {
	router, service := newTestRouter(t, nil)
	seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

	w := doJSON(router, http.MethodDelete, "/api/v1/quotes/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// The quote is gone.
	w = doJSON(router, http.MethodGet, "/api/v1/quotes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again reports 404, not success.
	w = doJSON(router, http.MethodDelete, "/api/v1/quotes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteHandler_FetchBio(t *testing.T) {
	t.Run("success persists the summary", func(t *testing.T) {
		bios := &fakeBios{bios: map[string]string{
			"Oscar Wilde": "Oscar Wilde was an Irish author, poet and playwright.",
		}}
		router, service := newTestRouter(t, bios)
		seed(t, service, "Be yourself", "Oscar Wilde", "Victorian")

		w := doJSON(router, http.MethodPost, "/api/v1/quotes/1/fetch-bio", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.FetchBioResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Successfully fetched and saved bio for Oscar Wilde.", resp.Message)
		assert.Equal(t, bios.bios["Oscar Wilde"], resp.Summary)

		// The summary now rides along on the quote representation.
		w = doJSON(router, http.MethodGet, "/api/v1/quotes/1", "")
		var quote dto.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
		assert.Equal(t, bios.bios["Oscar Wilde"], quote.AuthorBio)
	})

	t.Run("unknown quote returns 404", func(t *testing.T) {
		router, _ := newTestRouter(t, &fakeBios{})

		w := doJSON(router, http.MethodPost, "/api/v1/quotes/7/fetch-bio", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no article for author returns 404", func(t *testing.T) {
		router, service := newTestRouter(t, &fakeBios{bios: map[string]string{}})
		seed(t, service, "quote", "Totally Unknown", "")

		w := doJSON(router, http.MethodPost, "/api/v1/quotes/1/fetch-bio", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("provider outage returns 503", func(t *testing.T) {
		bios := &fakeBios{err: domain.NewUnavailableError("wikipedia", "connection refused")}
		router, service := newTestRouter(t, bios)
		seed(t, service, "quote", "Oscar Wilde", "")

		w := doJSON(router, http.MethodPost, "/api/v1/quotes/1/fetch-bio", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeUnavailable, resp.Error.Code)
	})

	t.Run("no provider configured returns 503", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "quote", "Oscar Wilde", "")

		w := doJSON(router, http.MethodPost, "/api/v1/quotes/1/fetch-bio", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestReportHandler_QuoteCounts(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/reports/quote-counts", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-Total-Count"))

		var resp []dto.EraCountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp)
	})

	t.Run("counts grouped by era", func(t *testing.T) {
		router, service := newTestRouter(t, nil)
		seed(t, service, "one", "Author A", "Victorian")
		seed(t, service, "two", "Author B", "Victorian")
		seed(t, service, "three", "Author C", "Romantic")

		w := doJSON(router, http.MethodGet, "/api/v1/reports/quote-counts", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-Total-Count"))

		var resp []dto.EraCountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "Victorian", resp[0].Era)
		assert.Equal(t, int64(2), resp[0].QuoteCount)
		assert.Equal(t, "Romantic", resp[1].Era)
		assert.Equal(t, int64(1), resp[1].QuoteCount)
	})
}
