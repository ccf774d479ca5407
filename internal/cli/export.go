package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgvieirabr/quotes-scraper/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored quotes to JSON or CSV",
	Example: `  # Export everything as JSON
  quotes export --format=json --output=quotes.json

  # CSV into the data directory
  quotes export --format=csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: quotes.<format> in the data directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a := getApp()

	format := strings.ToLower(exportFormat)
	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid format: %s (must be json or csv)", exportFormat)
	}

	quotes, err := a.Store.Quotes(cmd.Context())
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		return fmt.Errorf("database is empty; run `quotes scrape` first")
	}

	path := exportOutput
	if path == "" {
		path = filepath.Join(a.Config.DataDir, "quotes."+format)
	}

	switch format {
	case "json":
		err = export.SaveJSON(quotes, path)
	case "csv":
		err = export.SaveCSV(quotes, path)
	}
	if err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}

	fmt.Printf("Exported %d quotes to %s\n", len(quotes), path)
	return nil
}
