package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tgvieirabr/quotes-scraper/internal/app"
	"github.com/tgvieirabr/quotes-scraper/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Scrape, store and analyze quotes from a quotes site",
	Long: `A small scraping utility that fetches quote listings, captures page
screenshots as visual evidence, stores results in a local SQLite database,
and offers export and analysis commands.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and runs it under the
// given context. This is called by main.main() and only needs to happen once.
// The application is released even when the command fails, since cobra skips
// PersistentPostRun on error.
func Execute(ctx context.Context) error {
	defer shutdownApp()
	return rootCmd.ExecuteContext(ctx)
}

// shutdownApp closes the shared Application if one was started. Safe to call
// when no application exists.
func shutdownApp() {
	appCtx := getApp()
	if appCtx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.HTTPTimeout)
	defer cancel()
	_ = appCtx.Close(ctx)
	setApp(nil)
}

func init() {
	config.RegisterFlags(rootCmd)

	// Initialize the application before running commands; -h/help never
	// reaches this because cobra handles help without RunE.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if getApp() != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		appCtx, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		setApp(appCtx)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		shutdownApp()
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
