package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

func seedQuotes(t *testing.T, store *Store, quotes ...*domain.Quote) {
	t.Helper()

	for _, q := range quotes {
		require.NoError(t, store.Create(context.Background(), q))
	}
}

func TestStore_CreateAssignsIDAndTimestamps(t *testing.T) {
	store := NewStore()
	quote := &domain.Quote{Text: "Be yourself", Author: "Oscar Wilde"}

	require.NoError(t, store.Create(context.Background(), quote))

	assert.Equal(t, int64(1), quote.ID)
	assert.False(t, quote.CreatedAt.IsZero())
	assert.Equal(t, quote.CreatedAt, quote.UpdatedAt)

	second := &domain.Quote{Text: "Tyger Tyger", Author: "William Blake"}
	require.NoError(t, store.Create(context.Background(), second))
	assert.Equal(t, int64(2), second.ID)
}

func TestStore_GetByID(t *testing.T) {
	store := NewStore()
	seedQuotes(t, store, &domain.Quote{Text: "Be yourself", Author: "Oscar Wilde"})

	got, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Oscar Wilde", got.Author)

	// Mutating the returned quote must not change stored state.
	got.Author = "changed"
	again, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Oscar Wilde", again.Author)

	_, err = store.GetByID(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	seedQuotes(t, store,
		&domain.Quote{Text: "q1", Author: "a1", Era: "Victorian"},
		&domain.Quote{Text: "q2", Author: "a2", Era: "Romantic"},
		&domain.Quote{Text: "q3", Author: "a3", Era: "Victorian"},
	)

	t.Run("no filter returns everything in id order", func(t *testing.T) {
		quotes, err := store.List(context.Background(), ports.QuoteFilter{})
		require.NoError(t, err)
		require.Len(t, quotes, 3)
		assert.Equal(t, int64(1), quotes[0].ID)
		assert.Equal(t, int64(3), quotes[2].ID)
	})

	t.Run("era filter", func(t *testing.T) {
		era := "Victorian"
		quotes, err := store.List(context.Background(), ports.QuoteFilter{Era: &era})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, "q1", quotes[0].Text)
		assert.Equal(t, "q3", quotes[1].Text)
	})

	t.Run("cursor and limit", func(t *testing.T) {
		quotes, err := store.List(context.Background(), ports.QuoteFilter{AfterID: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, int64(2), quotes[0].ID)
	})

	t.Run("empty store", func(t *testing.T) {
		quotes, err := NewStore().List(context.Background(), ports.QuoteFilter{})
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	seedQuotes(t, store, &domain.Quote{Text: "Be yourself", Author: "Oscar Wilde"})

	quote, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)

	created := quote.CreatedAt
	quote.Text = "Be yourself; everyone else is already taken."

	require.NoError(t, store.Update(context.Background(), quote))

	updated, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Be yourself; everyone else is already taken.", updated.Text)
	assert.Equal(t, created, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created))

	missing := &domain.Quote{ID: 99, Text: "x", Author: "y"}
	err = store.Update(context.Background(), missing)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	seedQuotes(t, store, &domain.Quote{Text: "Be yourself", Author: "Oscar Wilde"})

	require.NoError(t, store.Delete(context.Background(), 1))

	_, err := store.GetByID(context.Background(), 1)
	assert.True(t, domain.IsNotFound(err))

	// Deleting twice reports not found.
	err = store.Delete(context.Background(), 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_CountByEra(t *testing.T) {
	store := NewStore()
	seedQuotes(t, store,
		&domain.Quote{Text: "q1", Author: "a1", Era: "Victorian"},
		&domain.Quote{Text: "q2", Author: "a2", Era: "Romantic"},
		&domain.Quote{Text: "q3", Author: "a3", Era: "Victorian"},
		&domain.Quote{Text: "q4", Author: "a4", Era: "Romantic"},
		&domain.Quote{Text: "q5", Author: "a5"},
	)

	counts, err := store.CountByEra(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)

	// Equal counts fall back to era name ordering.
	assert.Equal(t, domain.EraCount{Era: "Romantic", QuoteCount: 2}, counts[0])
	assert.Equal(t, domain.EraCount{Era: "Victorian", QuoteCount: 2}, counts[1])
	assert.Equal(t, domain.EraCount{Era: "", QuoteCount: 1}, counts[2])

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestStore_HealthCheck(t *testing.T) {
	store := NewStore()

	assert.Equal(t, "memory", store.Name())
	assert.NoError(t, store.Check(context.Background()))
}
