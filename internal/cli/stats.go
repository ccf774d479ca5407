package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var topAuthorCount int

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics and top authors",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVar(&topAuthorCount, "top", 10, "Number of top authors to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	a := getApp()
	ctx := cmd.Context()

	stats, err := a.Store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Quotes:  %d\n", stats.TotalQuotes)
	fmt.Printf("Authors: %d\n", stats.TotalAuthors)
	fmt.Printf("Runs:    %d\n", stats.TotalRuns)

	if stats.TotalQuotes == 0 {
		fmt.Println("\nDatabase is empty; run `quotes scrape` first.")
		return nil
	}

	top, err := a.Store.TopAuthors(ctx, topAuthorCount)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Author", "Quotes"})
	for i, ac := range top {
		t.AppendRow(table.Row{i + 1, ac.Author, ac.Count})
	}
	fmt.Println()
	t.Render()
	return nil
}
