package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// sanitizeHTML strips non-content elements and attributes from a fetched page
// before markdown conversion, so dumps carry only readable content.
func sanitizeHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas").Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			keep := false
			switch node.Data {
			case "a":
				keep = attr.Key == "href" || attr.Key == "title"
			case "img":
				keep = attr.Key == "src" || attr.Key == "alt" || attr.Key == "title"
			case "div", "span", "small":
				// class survives so quote blocks stay recognizable in dumps
				keep = attr.Key == "class"
			}
			if keep {
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	out, err := doc.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
