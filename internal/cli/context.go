// Package cli provides the command-line interface for the quotes scraper.
package cli

import (
	"github.com/tgvieirabr/quotes-scraper/internal/app"
)

// globalApp holds the Application shared by all commands for the lifetime of
// one CLI invocation. It is set in the root command's PersistentPreRunE and
// cleared again in PersistentPostRun.
var globalApp *app.Application

// setApp stores the Application for command access
func setApp(a *app.Application) {
	globalApp = a
}

// getApp retrieves the current Application
func getApp() *app.Application {
	return globalApp
}
