package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tgvieirabr/quotes-scraper/internal/browser"
	"github.com/tgvieirabr/quotes-scraper/internal/scraper"
)

var (
	maxPages     int
	noScreenshot bool
	renderMode   bool
	scheduleAt   string
	dumpPagePath string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one full scrape of the quotes site",
	Long: `Fetches every listing page, extracts quote text, author and tags,
captures a screenshot of the first page, and stores the records in the local
database. Duplicate quotes from earlier runs are skipped.`,
	Example: `  # Scrape everything with a first-page screenshot
  quotes scrape

  # Limit to three pages, skip the screenshot
  quotes scrape --max-pages=3 --no-screenshot

  # Render pages in a headless browser instead of plain HTTP
  quotes scrape --render

  # Defer the run until a given time
  quotes scrape --at=2026-09-01T14:30:00Z`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Maximum number of listing pages to scrape (0 = configured default)")
	scrapeCmd.Flags().BoolVar(&noScreenshot, "no-screenshot", false, "Skip the first-page screenshot")
	scrapeCmd.Flags().BoolVar(&renderMode, "render", false, "Fetch pages through the headless browser (for JS-heavy layouts)")
	scrapeCmd.Flags().StringVar(&scheduleAt, "at", "", "Defer the run until the given RFC3339 time")
	scrapeCmd.Flags().StringVar(&dumpPagePath, "dump-page", "", "Also save the first page as markdown to this file")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := getApp()
	ctx := cmd.Context()

	if scheduleAt != "" {
		if err := waitUntil(ctx, scheduleAt); err != nil {
			return err
		}
	}

	pages := a.Config.MaxPages
	if maxPages > 0 {
		pages = maxPages
	}

	var fetch scraper.Fetcher = a.Fetcher
	var shots scraper.Screenshotter

	if !noScreenshot || renderMode {
		session, err := a.EnsureBrowser(ctx)
		if err != nil {
			if renderMode {
				return fmt.Errorf("render mode requires a browser: %w", err)
			}
			log.Warn().Err(err).Msg("Browser unavailable, scraping without screenshots")
		} else {
			shots = session
			if renderMode {
				fetch = &renderFetcher{session: session}
			}
		}
	}

	pipeline := scraper.New(fetch, shots, a.Store)

	report, err := pipeline.Run(ctx, scraper.Options{
		BaseURL:        a.Config.BaseURL,
		MaxPages:       pages,
		TakeScreenshot: !noScreenshot,
		ScreenshotDir:  a.Config.ScreenshotDir,
		DumpPagePath:   dumpPagePath,
		Progress:       !a.Config.JSONLog,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%d/%d quotes added across %d pages\n", report.Inserted, report.Scraped, report.Pages)
	if report.Screenshot != "" {
		fmt.Printf("Screenshot saved: %s\n", report.Screenshot)
	}
	return nil
}

// waitUntil blocks until the given RFC3339 instant, honoring cancellation.
func waitUntil(ctx context.Context, at string) error {
	when, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return fmt.Errorf("invalid --at time %q (want RFC3339, e.g. 2026-09-01T14:30:00Z): %w", at, err)
	}

	delay := time.Until(when)
	if delay <= 0 {
		return fmt.Errorf("--at time %s is in the past", at)
	}

	log.Info().Time("run_at", when).Dur("delay", delay).Msg("Scrape scheduled")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// renderFetcher adapts the browser session to the pipeline's Fetcher
// interface for pages that need JavaScript execution.
type renderFetcher struct {
	session *browser.Session
}

func (r *renderFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := r.session.Render(ctx, url, "body")
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
