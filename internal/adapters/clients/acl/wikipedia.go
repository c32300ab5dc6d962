package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/poets-canvas/quote-service/internal/adapters/clients"
	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// defaultUserAgent identifies this service to the MediaWiki API, which
// rejects anonymous clients.
const defaultUserAgent = "PoetsCanvasQuoteService/1.0 (https://github.com/poets-canvas/quote-service)"

// Compile-time interface checks.
var (
	_ ports.AuthorBioProvider = (*Wikipedia)(nil)
	_ ports.HealthChecker     = (*Wikipedia)(nil)
)

// WikipediaConfig configures the Wikipedia bio adapter.
type WikipediaConfig struct {
	// Client executes the outbound requests with retry, circuit breaker
	// and instrumentation. Required.
	Client *clients.Client

	// BaseURL is the MediaWiki action API endpoint,
	// e.g. "https://en.wikipedia.org/w/api.php". Required.
	BaseURL string

	// ServiceName identifies the downstream service in errors and health
	// checks. Defaults to "wikipedia".
	ServiceName string

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Wikipedia fetches plain-text author biography summaries from the
// MediaWiki action API. Raw MediaWiki shapes never leave this adapter;
// callers see a summary string or a domain error.
type Wikipedia struct {
	client      *clients.Client
	baseURL     string
	serviceName string
	userAgent   string
}

// NewWikipedia creates a Wikipedia bio adapter.
func NewWikipedia(cfg WikipediaConfig) (*Wikipedia, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("http client is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wikipedia"
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Wikipedia{
		client:      cfg.Client,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName: serviceName,
		userAgent:   userAgent,
	}, nil
}

// wikiQueryResponse is the subset of the action API response we consume.
type wikiQueryResponse struct {
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}

// wikiPage is a single page entry. Missing articles carry a "missing"
// member and a page id of -1.
type wikiPage struct {
	PageID  int64   `json:"pageid"`
	Title   string  `json:"title"`
	Extract string  `json:"extract"`
	Missing *string `json:"missing"`
}

// FetchBio returns the plain-text intro extract of the author's Wikipedia
// article. Redirects are followed so minor name variations still resolve.
//
// Returns domain.ErrNotFound when no article exists for the author and
// domain.ErrUnavailable for transport or server failures. An article with
// an empty extract yields an empty summary and no error; the caller
// decides whether that is acceptable.
func (w *Wikipedia) FetchBio(ctx context.Context, author string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", author)
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(ctx, req)
	if err != nil {
		return "", MapHTTPError(nil, err, w.serviceName, "fetch author bio", author)
	}

	return w.parseBioResponse(resp, author)
}

// parseBioResponse owns resp and closes its body on every path. The
// client hands back non-2xx replies with a nil error and an open body,
// so the error branch has to release it too.
func (w *Wikipedia) parseBioResponse(resp *http.Response, author string) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", MapHTTPError(resp, nil, w.serviceName, "fetch author bio", author)
	}

	var decoded wikiQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", domain.NewUnavailableError(w.serviceName,
			fmt.Sprintf("malformed response: %v", err))
	}

	page, ok := firstPage(decoded)
	if !ok {
		return "", domain.NewNotFoundError(w.serviceName, author)
	}

	return strings.TrimSpace(page.Extract), nil
}

// firstPage extracts the single page entry from a query response.
// The action API keys pages by page id, so the map has one entry for a
// single-title query. Returns false when the article does not exist.
func firstPage(decoded wikiQueryResponse) (wikiPage, bool) {
	for _, page := range decoded.Query.Pages {
		if page.Missing != nil || page.PageID <= 0 {
			return wikiPage{}, false
		}

		return page, true
	}

	return wikiPage{}, false
}

// Name implements ports.HealthChecker.
func (w *Wikipedia) Name() string {
	return w.serviceName
}

// Check implements ports.HealthChecker. It reports unhealthy while the
// circuit breaker is open; no probe request is sent, so health checks
// stay cheap and never count against the breaker.
func (w *Wikipedia) Check(_ context.Context) error {
	if w.client.CircuitState() == clients.StateOpen {
		return fmt.Errorf("circuit breaker open for %s", w.serviceName)
	}

	return nil
}
