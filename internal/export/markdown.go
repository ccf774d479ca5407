package export

import (
	"fmt"
	"net/url"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// SaveMarkdown converts a fetched page's HTML to GitHub-flavored markdown and
// writes it to path, resolving relative links against pageURL.
func SaveMarkdown(html, pageURL, path string) error {
	cleaned, err := sanitizeHTML(html)
	if err != nil {
		return fmt.Errorf("sanitize page: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", selec.Text(), resolveURL(pageURL, href))
			return &str
		},
	})

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return fmt.Errorf("convert to markdown: %w", err)
	}
	return os.WriteFile(path, []byte(mdStr), 0o644)
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
