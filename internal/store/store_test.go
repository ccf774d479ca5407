package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tgvieirabr/quotes-scraper/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quotes.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuotes(now time.Time) []models.Quote {
	return []models.Quote{
		{
			Text:      "The world as we have created it is a process of our thinking.",
			Author:    "Albert Einstein",
			Tags:      []string{"change", "deep-thoughts", "thinking"},
			SourceURL: "http://quotes.toscrape.com/page/1/",
			ScrapedAt: now,
		},
		{
			Text:      "It is our choices that show what we truly are.",
			Author:    "J.K. Rowling",
			Tags:      []string{"abilities", "choices"},
			SourceURL: "http://quotes.toscrape.com/page/1/",
			ScrapedAt: now,
		},
	}
}

func TestInsertAndQueryQuotes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	inserted, err := s.InsertQuotes(ctx, sampleQuotes(now))
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	// Newest-first ties broken by id, so the second insert comes back first.
	quotes, err := s.Quotes(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.Equal(t, "J.K. Rowling", quotes[0].Author)
	require.Equal(t, []string{"change", "deep-thoughts", "thinking"}, quotes[1].Tags)
}

func TestInsertQuotesDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inserted, err := s.InsertQuotes(ctx, sampleQuotes(now))
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	// Re-running on identical input must not grow the table.
	inserted, err = s.InsertQuotes(ctx, sampleQuotes(now.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, 0, inserted)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalQuotes)
	require.Equal(t, 2, st.TotalAuthors)
}

func TestRecordRunAndStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	started := time.Now().UTC()

	err := s.RecordRun(ctx, models.RunReport{
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Pages:      2,
		Scraped:    20,
		Inserted:   20,
		Status:     models.RunSucceeded,
		Screenshot: "screenshots/screenshot_20260831_120000_p01.png",
	})
	require.NoError(t, err)

	err = s.RecordRun(ctx, models.RunReport{
		StartedAt:  started.Add(time.Minute),
		FinishedAt: started.Add(time.Minute + time.Second),
		Status:     models.RunFailed,
		Error:      "network unreachable",
	})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalRuns)
}

func TestTopAuthors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	quotes := []models.Quote{
		{Text: "q1", Author: "Einstein", Tags: []string{}, ScrapedAt: now},
		{Text: "q2", Author: "Einstein", Tags: []string{}, ScrapedAt: now},
		{Text: "q3", Author: "Austen", Tags: []string{}, ScrapedAt: now},
	}
	_, err := s.InsertQuotes(ctx, quotes)
	require.NoError(t, err)

	top, err := s.TopAuthors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Einstein", top[0].Author)
	require.Equal(t, 2, top[0].Count)
}
