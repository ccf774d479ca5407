// Package store persists quote records and run history in a local SQLite
// database. The schema is created on first open; every insert commits
// independently so a crash mid-run leaves individually consistent rows.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tgvieirabr/quotes-scraper/pkg/models"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store wraps the SQLite database holding quotes and scrape history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// modernc sqlite is not safe for concurrent writers over one file
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("Database initialized")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertQuotes inserts the given quotes, skipping any whose text is already
// stored. Returns the number of rows actually inserted.
func (s *Store) InsertQuotes(ctx context.Context, quotes []models.Quote) (int, error) {
	inserted := 0
	for _, q := range quotes {
		tags, err := json.Marshal(q.Tags)
		if err != nil {
			return inserted, fmt.Errorf("encode tags: %w", err)
		}

		res, err := s.db.ExecContext(ctx, `
			INSERT INTO quotes (text, author, tags, source_url, screenshot, scraped_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(text) DO NOTHING
		`, q.Text, q.Author, string(tags), q.SourceURL, q.Screenshot, encodeTime(q.ScrapedAt))
		if err != nil {
			return inserted, fmt.Errorf("insert quote: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			log.Debug().Str("author", q.Author).Msg("Duplicate quote skipped")
			continue
		}
		inserted++
	}
	return inserted, nil
}

// Quotes returns all stored quotes, most recently scraped first.
func (s *Store) Quotes(ctx context.Context) ([]models.Quote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, author, tags, COALESCE(source_url, ''), COALESCE(screenshot, ''), scraped_at
		FROM quotes
		ORDER BY scraped_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var out []models.Quote
	for rows.Next() {
		var q models.Quote
		var tags, scrapedAt string
		if err := rows.Scan(&q.Text, &q.Author, &tags, &q.SourceURL, &q.Screenshot, &scrapedAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &q.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		q.ScrapedAt = decodeTime(scrapedAt)
		out = append(out, q)
	}
	return out, rows.Err()
}

// RecordRun appends a row to the scrape history table.
func (s *Store) RecordRun(ctx context.Context, r models.RunReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scrape_history
			(started_at, finished_at, pages, total_scraped, total_inserted, status, error_message, screenshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, encodeTime(r.StartedAt), encodeTime(r.FinishedAt), r.Pages, r.Scraped, r.Inserted, string(r.Status), r.Error, r.Screenshot)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Timestamps are stored as RFC3339 text in UTC, which sorts correctly as a
// plain string.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Stats returns aggregate counts over the quotes and history tables.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT author) FROM quotes
	`).Scan(&st.TotalQuotes, &st.TotalAuthors)
	if err != nil {
		return st, fmt.Errorf("quote stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scrape_history`).Scan(&st.TotalRuns)
	if err != nil {
		return st, fmt.Errorf("run stats: %w", err)
	}

	return st, nil
}

// TopAuthors returns the n authors with the most stored quotes.
func (s *Store) TopAuthors(ctx context.Context, n int) ([]models.AuthorCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author, COUNT(*) AS c
		FROM quotes
		GROUP BY author
		ORDER BY c DESC, author ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query top authors: %w", err)
	}
	defer rows.Close()

	var out []models.AuthorCount
	for rows.Next() {
		var ac models.AuthorCount
		if err := rows.Scan(&ac.Author, &ac.Count); err != nil {
			return nil, fmt.Errorf("scan author count: %w", err)
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}
