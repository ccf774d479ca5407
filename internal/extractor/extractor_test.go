package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const singleQuoteHTML = `
<div class="quote" itemscope itemtype="http://schema.org/CreativeWork">
	<span class="text" itemprop="text">&#8220;The world as we have created it is a process of our thinking.&#8221;</span>
	<span>by <small class="author" itemprop="author">Albert Einstein</small></span>
	<div class="tags">
		Tags:
		<a class="tag" href="/tag/change/page/1/">change</a>
		<a class="tag" href="/tag/deep-thoughts/page/1/">deep-thoughts</a>
		<a class="tag" href="/tag/thinking/page/1/">thinking</a>
	</div>
</div>`

const twoQuoteHTML = `
<div class="quote">
	<span class="text">"Quote 1"</span>
	<small class="author">Author 1</small>
	<div class="tags"><a class="tag">tag1</a></div>
</div>
<div class="quote">
	<span class="text">"Quote 2"</span>
	<small class="author">Author 2</small>
	<div class="tags"><a class="tag">tag2</a><a class="tag">tag3</a></div>
</div>`

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestParse_SingleQuote(t *testing.T) {
	doc := docFromString(t, singleQuoteHTML)

	quotes, err := Parse(doc, "http://quotes.toscrape.com/page/1/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(quotes) != 1 {
		t.Fatalf("Expected 1 quote, got %d", len(quotes))
	}

	q := quotes[0]
	if q.Text != "The world as we have created it is a process of our thinking." {
		t.Errorf("Unexpected text: %q", q.Text)
	}
	if q.Author != "Albert Einstein" {
		t.Errorf("Expected author 'Albert Einstein', got %q", q.Author)
	}
	if len(q.Tags) != 3 || q.Tags[0] != "change" {
		t.Errorf("Unexpected tags: %v", q.Tags)
	}
	if q.SourceURL != "http://quotes.toscrape.com/page/1/" {
		t.Errorf("Unexpected source URL: %q", q.SourceURL)
	}
	if q.ScrapedAt.IsZero() {
		t.Error("ScrapedAt not set")
	}
}

func TestParse_OrderPreserved(t *testing.T) {
	doc := docFromString(t, twoQuoteHTML)

	quotes, err := Parse(doc, "http://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(quotes) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(quotes))
	}

	want := []struct{ text, author string }{
		{"Quote 1", "Author 1"},
		{"Quote 2", "Author 2"},
	}
	for i, w := range want {
		if quotes[i].Text != w.text || quotes[i].Author != w.author {
			t.Errorf("Quote %d: got (%q, %q), want (%q, %q)",
				i, quotes[i].Text, quotes[i].Author, w.text, w.author)
		}
	}
}

func TestParse_NoQuotes(t *testing.T) {
	doc := docFromString(t, `<html><body><p>Nothing here</p></body></html>`)

	_, err := Parse(doc, "http://example.com/")
	if !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("Expected ErrNoQuotes, got %v", err)
	}
}

func TestParse_MalformedBlockSkipped(t *testing.T) {
	html := `
	<div class="quote"><span class="text">"Valid"</span><small class="author">Someone</small></div>
	<div class="quote"><span class="text"></span></div>`
	doc := docFromString(t, html)

	quotes, err := Parse(doc, "http://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("Expected malformed block to be skipped, got %d quotes", len(quotes))
	}
}

func TestNextPage(t *testing.T) {
	html := `<ul class="pager"><li class="next"><a href="/page/2/">Next</a></li></ul>`
	doc := docFromString(t, html)

	next := NextPage(doc, "http://quotes.toscrape.com/page/1/")
	if next != "http://quotes.toscrape.com/page/2/" {
		t.Errorf("Unexpected next page: %q", next)
	}
}

func TestNextPage_LastPage(t *testing.T) {
	html := `<ul class="pager"><li class="previous"><a href="/page/9/">Previous</a></li></ul>`
	doc := docFromString(t, html)

	if next := NextPage(doc, "http://quotes.toscrape.com/page/10/"); next != "" {
		t.Errorf("Expected empty next page on last page, got %q", next)
	}
}
