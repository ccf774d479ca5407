// Package export writes stored quotes to interchange formats and renders
// fetched pages as markdown.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tgvieirabr/quotes-scraper/pkg/models"
)

// SaveJSON writes the quotes as an indented JSON array to path.
func SaveJSON(quotes []models.Quote, path string) error {
	content, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quotes: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}
