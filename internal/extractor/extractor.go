// Package extractor turns fetched listing pages into quote records.
//
// Selectors match on class-attribute substrings rather than exact classes,
// so minor markup changes on the source site do not break extraction.
package extractor

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/tgvieirabr/quotes-scraper/pkg/models"
)

// ErrNoQuotes is returned when a page contains no recognizable quote blocks.
// On the first page this means the site layout changed; on later pages it
// marks the end of pagination.
var ErrNoQuotes = errors.New("no quote blocks found on page")

const (
	selQuote  = `div[class*="quote"]`
	selText   = `[class*="text"]`
	selAuthor = `[class*="author"]`
	selTag    = `a[class*="tag"]`
	selNext   = `li.next a`
)

// Parse extracts all quote records from the document, in document order.
// The source URL and scrape timestamp are stamped onto every record.
func Parse(doc *goquery.Document, sourceURL string) ([]models.Quote, error) {
	now := time.Now().UTC()
	var quotes []models.Quote

	doc.Find(selQuote).Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Find(selText).First().Text())
		author := cleanAuthor(sel.Find(selAuthor).First().Text())
		if text == "" || author == "" {
			log.Debug().Str("url", sourceURL).Msg("Skipping malformed quote block")
			return
		}

		tags := []string{}
		sel.Find(selTag).Each(func(_ int, tag *goquery.Selection) {
			if t := strings.TrimSpace(tag.Text()); t != "" {
				tags = append(tags, t)
			}
		})

		quotes = append(quotes, models.Quote{
			Text:      text,
			Author:    author,
			Tags:      tags,
			SourceURL: sourceURL,
			ScrapedAt: now,
		})
	})

	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}

	log.Debug().Int("count", len(quotes)).Str("url", sourceURL).Msg("Quotes extracted")
	return quotes, nil
}

// NextPage returns the absolute URL of the next listing page, or "" when the
// document has no next-page affordance.
func NextPage(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find(selNext).First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// cleanText strips surrounding quotation marks (curly or straight) and whitespace.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "“”\"")
}

// cleanAuthor drops a leading "by " the source site sometimes renders inline.
func cleanAuthor(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"by ", "By ", "BY "} {
		s = strings.TrimPrefix(s, prefix)
	}
	return s
}
