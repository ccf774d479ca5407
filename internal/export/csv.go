package export

import (
	"encoding/csv"
	"os"
	"strings"
	"time"

	"github.com/tgvieirabr/quotes-scraper/pkg/models"
)

// SaveCSV writes the quotes to a CSV file with one row per quote.
// Tags are pipe-joined so the column stays a single field.
func SaveCSV(quotes []models.Quote, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"text", "author", "tags", "source_url", "scraped_at"}); err != nil {
		return err
	}

	for _, q := range quotes {
		row := []string{
			q.Text,
			q.Author,
			strings.Join(q.Tags, "|"),
			q.SourceURL,
			q.ScrapedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
