// cmd/quotes/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tgvieirabr/quotes-scraper/internal/cli"
)

func main() {
	// Interrupt cancels the command context so in-flight work stops and the
	// browser session and database are released before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
