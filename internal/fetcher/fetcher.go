// Package fetcher retrieves listing pages over plain HTTP with rate
// limiting, retry and robots.txt checks. JavaScript-rendered pages and
// screenshots go through the browser package instead.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/tgvieirabr/quotes-scraper/internal/ratelimit"
	"github.com/tgvieirabr/quotes-scraper/internal/retry"
)

// HTTPError represents a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Status, e.URL)
}

// GetStatusCode implements retry.StatusCoder.
func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// Client fetches and parses static HTML pages.
type Client struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	robots    *robotsCache
	retryCfg  retry.Config
	userAgent string
}

// New creates a Client with dependency injection.
func New(client *http.Client, limiter ratelimit.RateLimiter, retryCfg retry.Config, userAgent string) *Client {
	return &Client{
		client:    client,
		limiter:   limiter,
		robots:    newRobotsCache(client, userAgent),
		retryCfg:  retryCfg,
		userAgent: userAgent,
	}
}

// Fetch retrieves the page at url and parses it into a goquery document.
// It blocks on the per-domain rate limiter, retries retryable failures with
// backoff, and returns an HTTPError for non-2xx responses.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	allowed, err := c.robots.Allowed(ctx, url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("robots.txt unavailable, proceeding")
	} else if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", url)
	}

	var doc *goquery.Document
	err = retry.WithRetry(ctx, c.retryCfg, func() error {
		if err := c.limiter.Wait(ctx, url); err != nil {
			return err
		}

		start := time.Now()
		d, err := c.fetchOnce(ctx, url)
		if err != nil {
			return err
		}

		log.Debug().
			Str("url", url).
			Dur("elapsed", time.Since(start)).
			Msg("Page fetched")
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML from %s: %w", url, err)
	}
	return doc, nil
}
