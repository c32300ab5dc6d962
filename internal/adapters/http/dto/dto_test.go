package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poets-canvas/quote-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestValidate_CreateQuoteRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateQuoteRequest
		wantField string
	}{
		{
			name: "valid",
			req:  CreateQuoteRequest{Text: "Be yourself", Author: "Oscar Wilde"},
		},
		{
			name: "valid with era",
			req:  CreateQuoteRequest{Text: "Tyger Tyger", Author: "William Blake", Era: "Romantic"},
		},
		{
			name:      "missing text",
			req:       CreateQuoteRequest{Author: "Oscar Wilde"},
			wantField: "text",
		},
		{
			name:      "whitespace-only author",
			req:       CreateQuoteRequest{Text: "Be yourself", Author: "   "},
			wantField: "author",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			fieldErrors := ValidationErrors(err)
			assert.Contains(t, fieldErrors, tt.wantField)
		})
	}
}

func TestValidate_UpdateQuoteRequest(t *testing.T) {
	text := "Be yourself"
	blank := "   "

	t.Run("all fields omitted is valid", func(t *testing.T) {
		assert.NoError(t, Validate(UpdateQuoteRequest{}))
	})

	t.Run("present field must be non-blank", func(t *testing.T) {
		assert.NoError(t, Validate(UpdateQuoteRequest{Text: &text}))

		err := Validate(UpdateQuoteRequest{Author: &blank})
		require.Error(t, err)
		assert.Contains(t, ValidationErrors(err), "author")
	})
}

func TestBindAndValidate(t *testing.T) {
	newContext := func(body string) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		return c, w
	}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newContext(`{"text":"Be yourself","author":"Oscar Wilde"}`)

		var req CreateQuoteRequest
		require.NoError(t, BindAndValidate(c, &req))
		assert.Equal(t, "Oscar Wilde", req.Author)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, _ := newContext(`{"text": `)

		var req CreateQuoteRequest
		err := BindAndValidate(c, &req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBinding))
	})

	t.Run("validation failure", func(t *testing.T) {
		c, _ := newContext(`{"text":"","author":"Oscar Wilde"}`)

		var req CreateQuoteRequest
		err := BindAndValidate(c, &req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedField  string
	}{
		{
			name:           "not found maps to 404",
			err:            domain.NewQuoteNotFound(7),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
		},
		{
			name:           "conflict maps to 409",
			err:            domain.NewConflictError("quote", "duplicate"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
		},
		{
			name:           "validation maps to 400 with field details",
			err:            domain.NewValidationError("text", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
			expectedField:  "text",
		},
		{
			name:           "forbidden maps to 403",
			err:            domain.NewForbiddenError("delete quote", "read-only"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrorCodeForbidden,
		},
		{
			name:           "unavailable maps to 503",
			err:            domain.NewUnavailableError("wikipedia", "connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "unknown error maps to 500 with generic message",
			err:            errors.New("kaboom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)

			if tt.expectedCode == ErrorCodeInternal {
				assert.NotContains(t, resp.Error.Message, "kaboom")
			}

			if tt.expectedField != "" {
				assert.Contains(t, resp.Error.Details, tt.expectedField)
			}
		})
	}

	t.Run("nil error maps to 200", func(t *testing.T) {
		status, resp := MapDomainError(nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotes/7", nil)

	RespondWithError(c, domain.NewQuoteNotFound(7))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestRespondWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/quotes", nil)

	RespondWithErrorCode(c, ErrorCodeBadRequest, "request body is not valid JSON")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrorCodeBadRequest, resp.Error.Code)
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/quotes", nil)

	RespondWithValidationErrors(c, map[string]string{
		"text":   "must not be empty",
		"author": "this field is required",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "must not be empty", resp.Error.Details["text"])
	assert.Equal(t, "this field is required", resp.Error.Details["author"])
}

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromCode(ErrorCodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatusFromCode(ErrorCodeConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromCode(ErrorCodeValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromCode(ErrorCodeBadRequest))
	assert.Equal(t, http.StatusForbidden, HTTPStatusFromCode(ErrorCodeForbidden))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatusFromCode(ErrorCodeUnavailable))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatusFromCode(ErrorCodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("SOMETHING_ELSE"))
}

func TestQuoteFromDomain(t *testing.T) {
	now := time.Now().UTC()
	quote := &domain.Quote{
		ID:        3,
		Text:      "Be yourself",
		Author:    "Oscar Wilde",
		Era:       "Victorian",
		AuthorBio: "Oscar Wilde was an Irish poet and playwright.",
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := QuoteFromDomain(quote)

	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, quote.AuthorBio, resp.AuthorBio)
	assert.Equal(t, now, resp.CreatedAt)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"author_bio_summary"`)
	assert.Contains(t, string(body), `"created_at"`)
}
