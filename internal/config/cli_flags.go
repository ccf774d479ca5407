package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("base-url", DefaultBaseURL, "Base URL of the quotes site")
	cmd.PersistentFlags().String("data-dir", DefaultDataDir, "Directory for the database and exports")
	cmd.PersistentFlags().String("timeout", DefaultHTTPTimeout.String(), "Hard timeout for HTTP requests")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
}
