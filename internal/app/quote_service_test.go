package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poets-canvas/quote-service/internal/adapters/storage/memory"
	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

// fakeBioProvider returns a canned biography per author.
type fakeBioProvider struct {
	bios  map[string]string
	err   error
	calls []string
}

func (f *fakeBioProvider) FetchBio(_ context.Context, author string) (string, error) {
	f.calls = append(f.calls, author)

	if f.err != nil {
		return "", f.err
	}

	bio, ok := f.bios[author]
	if !ok {
		return "", domain.NewNotFoundError("article", author)
	}

	return bio, nil
}

func newTestService(t *testing.T) (*QuoteService, *memory.Store, *fakeBioProvider) {
	t.Helper()

	store := memory.NewStore()
	bios := &fakeBioProvider{bios: map[string]string{
		"Oscar Wilde": "Oscar Wilde was an Irish poet and playwright.",
	}}

	svc := NewQuoteService(QuoteServiceConfig{
		Repository:  store,
		BioProvider: bios,
	})

	return svc, store, bios
}

func TestQuoteService_CreateQuote(t *testing.T) {
	svc, _, _ := newTestService(t)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text:   "  Be yourself  ",
		Author: " Oscar Wilde ",
		Era:    "Victorian",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), quote.ID)
	assert.Equal(t, "Be yourself", quote.Text)
	assert.Equal(t, "Oscar Wilde", quote.Author)
	assert.False(t, quote.CreatedAt.IsZero())
}

func TestQuoteService_CreateQuote_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)

	tests := []struct {
		name   string
		params CreateQuoteParams
		field  string
	}{
		{"empty text", CreateQuoteParams{Author: "Oscar Wilde"}, "text"},
		{"whitespace text", CreateQuoteParams{Text: "   ", Author: "Oscar Wilde"}, "text"},
		{"empty author", CreateQuoteParams{Text: "Be yourself"}, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateQuote(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	// Failed creates must not persist anything.
	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestQuoteService_GetQuote(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text: "Be yourself", Author: "Oscar Wilde",
	})
	require.NoError(t, err)

	got, err := svc.GetQuote(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetQuote(context.Background(), 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestQuoteService_ListQuotes(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, p := range []CreateQuoteParams{
		{Text: "q1", Author: "a1", Era: "Victorian"},
		{Text: "q2", Author: "a2", Era: "Romantic"},
		{Text: "q3", Author: "a3", Era: "Victorian"},
	} {
		_, err := svc.CreateQuote(context.Background(), p)
		require.NoError(t, err)
	}

	all, err := svc.ListQuotes(context.Background(), ports.QuoteFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	era := "Victorian"
	filtered, err := svc.ListQuotes(context.Background(), ports.QuoteFilter{Era: &era})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestQuoteService_UpdateQuote(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text: "Be yourself", Author: "Oscar Wilde", Era: "Victorian",
	})
	require.NoError(t, err)

	newText := "Be yourself; everyone else is already taken."
	updated, err := svc.UpdateQuote(context.Background(), created.ID, UpdateQuoteParams{
		Text: &newText,
	})
	require.NoError(t, err)

	// Untouched fields survive a partial update.
	assert.Equal(t, newText, updated.Text)
	assert.Equal(t, "Oscar Wilde", updated.Author)
	assert.Equal(t, "Victorian", updated.Era)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestQuoteService_UpdateQuote_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text: "Be yourself", Author: "Oscar Wilde",
	})
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		text := "x"
		_, err := svc.UpdateQuote(context.Background(), 999, UpdateQuoteParams{Text: &text})
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("blanking a required field", func(t *testing.T) {
		empty := "  "
		_, err := svc.UpdateQuote(context.Background(), created.ID, UpdateQuoteParams{Author: &empty})
		assert.True(t, domain.IsValidation(err))

		// Rejected update leaves the record untouched.
		got, getErr := svc.GetQuote(context.Background(), created.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "Oscar Wilde", got.Author)
	})
}

func TestQuoteService_DeleteQuote(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text: "Be yourself", Author: "Oscar Wilde",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuote(context.Background(), created.ID))

	_, err = svc.GetQuote(context.Background(), created.ID)
	assert.True(t, domain.IsNotFound(err))

	err = svc.DeleteQuote(context.Background(), created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestQuoteService_FetchAuthorBio(t *testing.T) {
	svc, _, bios := newTestService(t)

	created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
		Text: "Be yourself", Author: "Oscar Wilde",
	})
	require.NoError(t, err)

	quote, err := svc.FetchAuthorBio(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Oscar Wilde was an Irish poet and playwright.", quote.AuthorBio)
	assert.Equal(t, []string{"Oscar Wilde"}, bios.calls)

	// The bio is persisted, not just returned.
	reloaded, err := svc.GetQuote(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.AuthorBio, reloaded.AuthorBio)
}

func TestQuoteService_FetchAuthorBio_Errors(t *testing.T) {
	t.Run("quote not found", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.FetchAuthorBio(context.Background(), 999)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("article not found", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
			Text: "q", Author: "Nobody Anyoneknows",
		})
		require.NoError(t, err)

		_, err = svc.FetchAuthorBio(context.Background(), created.ID)
		assert.True(t, domain.IsNotFound(err))

		// Nothing was written on failure.
		reloaded, getErr := svc.GetQuote(context.Background(), created.ID)
		require.NoError(t, getErr)
		assert.Empty(t, reloaded.AuthorBio)
	})

	t.Run("provider unavailable", func(t *testing.T) {
		store := memory.NewStore()
		bios := &fakeBioProvider{err: domain.NewUnavailableError("wikipedia", "connection refused")}
		svc := NewQuoteService(QuoteServiceConfig{Repository: store, BioProvider: bios})

		created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
			Text: "q", Author: "Oscar Wilde",
		})
		require.NoError(t, err)

		_, err = svc.FetchAuthorBio(context.Background(), created.ID)
		assert.True(t, domain.IsUnavailable(err))
	})

	t.Run("no provider configured", func(t *testing.T) {
		svc := NewQuoteService(QuoteServiceConfig{Repository: memory.NewStore()})

		created, err := svc.CreateQuote(context.Background(), CreateQuoteParams{
			Text: "q", Author: "Oscar Wilde",
		})
		require.NoError(t, err)

		_, err = svc.FetchAuthorBio(context.Background(), created.ID)
		assert.True(t, domain.IsUnavailable(err))
	})
}

func TestQuoteService_BuildEraReport(t *testing.T) {
	svc, _, _ := newTestService(t)

	t.Run("empty collection", func(t *testing.T) {
		report, err := svc.BuildEraReport(context.Background())
		require.NoError(t, err)
		assert.Empty(t, report.Counts)
		assert.Zero(t, report.Total)
	})

	for _, p := range []CreateQuoteParams{
		{Text: "q1", Author: "a1", Era: "Victorian"},
		{Text: "q2", Author: "a2", Era: "Victorian"},
		{Text: "q3", Author: "a3", Era: "Romantic"},
	} {
		_, err := svc.CreateQuote(context.Background(), p)
		require.NoError(t, err)
	}

	report, err := svc.BuildEraReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Counts, 2)
	assert.Equal(t, domain.EraCount{Era: "Victorian", QuoteCount: 2}, report.Counts[0])
	assert.Equal(t, domain.EraCount{Era: "Romantic", QuoteCount: 1}, report.Counts[1])
	assert.Equal(t, int64(3), report.Total)
}
