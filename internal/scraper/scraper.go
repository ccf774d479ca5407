// Package scraper orchestrates the fetch, extract and persist stages for a
// single scrape run over the paginated quote listing.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/tgvieirabr/quotes-scraper/internal/export"
	"github.com/tgvieirabr/quotes-scraper/internal/extractor"
	"github.com/tgvieirabr/quotes-scraper/pkg/models"
)

// quoteSelector is what a listing page must render before it counts as loaded.
const quoteSelector = `div[class*="quote"]`

// Fetcher retrieves a listing page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Screenshotter captures a page as a PNG file and returns its path.
type Screenshotter interface {
	Screenshot(ctx context.Context, url, waitFor, dir string, page int) (string, error)
}

// Persister stores extracted quotes and the run record.
type Persister interface {
	InsertQuotes(ctx context.Context, quotes []models.Quote) (int, error)
	RecordRun(ctx context.Context, r models.RunReport) error
}

// Options controls a single run.
type Options struct {
	BaseURL        string
	MaxPages       int
	TakeScreenshot bool
	ScreenshotDir  string
	DumpPagePath   string // when set, page 1 is also saved as markdown
	Progress       bool   // render a terminal progress bar
}

// Pipeline wires the three stages together. Screenshotter may be nil when
// screenshots are disabled or no browser is available.
type Pipeline struct {
	fetcher Fetcher
	shots   Screenshotter
	store   Persister
}

// New creates a Pipeline.
func New(f Fetcher, shots Screenshotter, store Persister) *Pipeline {
	return &Pipeline{fetcher: f, shots: shots, store: store}
}

// Run performs one full scrape: it walks listing pages starting at
// <base>/page/1/ until the next-page link disappears or MaxPages is reached,
// persisting every extracted quote. The outcome is recorded in the scrape
// history whether the run succeeds or fails.
func (p *Pipeline) Run(ctx context.Context, opts Options) (models.RunReport, error) {
	report := models.RunReport{StartedAt: time.Now().UTC()}

	err := p.run(ctx, opts, &report)

	report.FinishedAt = time.Now().UTC()
	if err != nil {
		report.Status = models.RunFailed
		report.Error = err.Error()
	} else {
		report.Status = models.RunSucceeded
	}

	if recErr := p.store.RecordRun(ctx, report); recErr != nil {
		log.Warn().Err(recErr).Msg("Failed to record run history")
	}

	if err != nil {
		return report, err
	}

	log.Info().
		Int("pages", report.Pages).
		Int("scraped", report.Scraped).
		Int("inserted", report.Inserted).
		Msg("Scrape completed")
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, opts Options, report *models.RunReport) error {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}

	pageURL := pageOneURL(opts.BaseURL)

	if opts.TakeScreenshot && p.shots != nil {
		path, err := p.shots.Screenshot(ctx, pageURL, quoteSelector, opts.ScreenshotDir, 1)
		if err != nil {
			// The run is still useful without visual evidence.
			log.Warn().Err(err).Msg("Screenshot capture failed, continuing without it")
		} else {
			report.Screenshot = path
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(opts.MaxPages), "pages")
		defer bar.Finish()
	}

	visited := make(map[string]bool)

	for page := 1; page <= opts.MaxPages; page++ {
		if visited[pageURL] {
			log.Warn().Str("url", pageURL).Msg("Pagination loop detected, stopping")
			break
		}
		visited[pageURL] = true

		doc, err := p.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("fetch page %d: %w", page, err)
		}

		quotes, err := extractor.Parse(doc, pageURL)
		if errors.Is(err, extractor.ErrNoQuotes) {
			if page == 1 {
				// An empty first page means the layout changed, not that
				// the listing is exhausted.
				return fmt.Errorf("page 1: %w", err)
			}
			log.Info().Int("page", page).Msg("Empty page reached, ending pagination")
			break
		}
		if err != nil {
			return fmt.Errorf("extract page %d: %w", page, err)
		}

		if report.Screenshot != "" && page == 1 {
			for i := range quotes {
				quotes[i].Screenshot = report.Screenshot
			}
		}

		inserted, err := p.store.InsertQuotes(ctx, quotes)
		if err != nil {
			return fmt.Errorf("persist page %d: %w", page, err)
		}

		report.Pages = page
		report.Scraped += len(quotes)
		report.Inserted += inserted

		log.Debug().
			Int("page", page).
			Int("quotes", len(quotes)).
			Int("inserted", inserted).
			Msg("Page persisted")

		if opts.DumpPagePath != "" && page == 1 {
			if html, herr := doc.Html(); herr == nil {
				if derr := export.SaveMarkdown(html, pageURL, opts.DumpPagePath); derr != nil {
					log.Warn().Err(derr).Msg("Failed to save markdown page dump")
				}
			}
		}

		if bar != nil {
			bar.Add(1)
		}

		next := extractor.NextPage(doc, pageURL)
		if next == "" {
			log.Debug().Int("page", page).Msg("No next page, pagination complete")
			break
		}
		pageURL = next
	}

	return nil
}

// pageOneURL builds the first listing page URL from the site base.
func pageOneURL(base string) string {
	return strings.TrimRight(base, "/") + "/page/1/"
}
