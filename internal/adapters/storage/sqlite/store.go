// Package sqlite implements the quote repository on an embedded SQLite
// database. The driver is pure Go, so the binary stays CGO-free and the
// store works anywhere the service runs. Use ":memory:" as the DSN for
// throwaway databases in tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/poets-canvas/quote-service/internal/domain"
	"github.com/poets-canvas/quote-service/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT NOT NULL,
	author     TEXT NOT NULL,
	era        TEXT NOT NULL DEFAULT '',
	author_bio TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quotes_era ON quotes(era);
`

// Store is a SQLite-backed implementation of ports.QuoteRepository.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and prepares the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()

		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()

		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("preparing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create persists a new quote, assigning its id and timestamps.
func (s *Store) Create(ctx context.Context, quote *domain.Quote) error {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (text, author, era, author_bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		quote.Text, quote.Author, quote.Era, quote.AuthorBio, now, now,
	)
	if err != nil {
		return unavailable("inserting quote", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return unavailable("reading inserted quote id", err)
	}

	quote.ID = id
	quote.CreatedAt = now
	quote.UpdatedAt = now

	return nil
}

// GetByID retrieves a quote by id.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, author, era, author_bio, created_at, updated_at
		 FROM quotes WHERE id = ?`, id,
	)

	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuoteNotFound(id)
		}

		return nil, unavailable("selecting quote", err)
	}

	return quote, nil
}

// List returns quotes matching the filter in ascending id order.
func (s *Store) List(ctx context.Context, filter ports.QuoteFilter) ([]*domain.Quote, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.AfterID > 0 {
		conditions = append(conditions, "id > ?")
		args = append(args, filter.AfterID)
	}

	if filter.Era != nil {
		conditions = append(conditions, "era = ?")
		args = append(args, *filter.Era)
	}

	query := `SELECT id, text, author, era, author_bio, created_at, updated_at FROM quotes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("selecting quotes", err)
	}
	defer rows.Close()

	quotes := make([]*domain.Quote, 0)

	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, unavailable("scanning quote", err)
		}

		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating quotes", err)
	}

	return quotes, nil
}

// Update overwrites an existing quote's mutable fields and bumps UpdatedAt.
func (s *Store) Update(ctx context.Context, quote *domain.Quote) error {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE quotes SET text = ?, author = ?, era = ?, author_bio = ?, updated_at = ?
		 WHERE id = ?`,
		quote.Text, quote.Author, quote.Era, quote.AuthorBio, now, quote.ID,
	)
	if err != nil {
		return unavailable("updating quote", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("reading update result", err)
	}

	if affected == 0 {
		return domain.NewQuoteNotFound(quote.ID)
	}

	quote.UpdatedAt = now

	return nil
}

// Delete removes a quote permanently.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return unavailable("deleting quote", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("reading delete result", err)
	}

	if affected == 0 {
		return domain.NewQuoteNotFound(id)
	}

	return nil
}

// CountByEra groups quotes by era, highest count first, ties by era name.
func (s *Store) CountByEra(ctx context.Context) ([]domain.EraCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT era, COUNT(*) FROM quotes GROUP BY era ORDER BY COUNT(*) DESC, era ASC`,
	)
	if err != nil {
		return nil, unavailable("counting quotes by era", err)
	}
	defer rows.Close()

	counts := make([]domain.EraCount, 0)

	for rows.Next() {
		var count domain.EraCount
		if err := rows.Scan(&count.Era, &count.QuoteCount); err != nil {
			return nil, unavailable("scanning era count", err)
		}

		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating era counts", err)
	}

	return counts, nil
}

// Count returns the total number of quotes.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&total); err != nil {
		return 0, unavailable("counting quotes", err)
	}

	return total, nil
}

// Name identifies the store in health check responses.
func (s *Store) Name() string { return "sqlite" }

// Check verifies the database is reachable.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// unavailable classifies a driver failure as a storage outage. Callers
// above the ports boundary see only domain errors, and a store that
// cannot serve maps to the unavailable family.
func unavailable(op string, err error) error {
	return domain.NewUnavailableError("sqlite", fmt.Sprintf("%s: %v", op, err))
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(row scanner) (*domain.Quote, error) {
	var quote domain.Quote

	err := row.Scan(
		&quote.ID,
		&quote.Text,
		&quote.Author,
		&quote.Era,
		&quote.AuthorBio,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &quote, nil
}
