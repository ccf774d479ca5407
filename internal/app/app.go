// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tgvieirabr/quotes-scraper/internal/browser"
	"github.com/tgvieirabr/quotes-scraper/internal/config"
	"github.com/tgvieirabr/quotes-scraper/internal/fetcher"
	"github.com/tgvieirabr/quotes-scraper/internal/ratelimit"
	"github.com/tgvieirabr/quotes-scraper/internal/retry"
	"github.com/tgvieirabr/quotes-scraper/internal/store"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown, covering both
// normal completion and early failure.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Store       *store.Store
	Fetcher     *fetcher.Client
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client

	browserMu sync.Mutex
	browser   *browser.Session
	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// The browser session is not started here; commands that need screenshots or
// rendering call EnsureBrowser. If any step fails, already-acquired resources
// are released before returning.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := setupLogger(cfg)

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	limiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	client := fetcher.New(httpClient, limiter, retryCfg, cfg.UserAgent)

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Store:       st,
		Fetcher:     client,
		RateLimiter: limiter,
		HTTPClient:  httpClient,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// EnsureBrowser lazily starts the browser session if it has not been started.
// Callers should provide a context with an appropriate timeout.
func (a *Application) EnsureBrowser(ctx context.Context) (*browser.Session, error) {
	a.browserMu.Lock()
	defer a.browserMu.Unlock()

	if a.browser != nil {
		return a.browser, nil
	}

	a.Logger.Debug().Msg("Starting browser session on demand")
	session, err := browser.NewSession(ctx, browser.Options{
		Headless:     a.Config.Headless,
		UserAgent:    a.Config.UserAgent,
		ChromePath:   a.Config.ChromePath,
		GridEndpoint: a.Config.GridEndpoint,
		WindowWidth:  config.DefaultWindowWidth,
		WindowHeight: config.DefaultWindowHeight,
	})
	if err != nil {
		return nil, err
	}

	a.browser = session
	return session, nil
}

// Close gracefully shuts down the application and all its resources.
// Errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.browserMu.Lock()
	if a.browser != nil {
		a.browser.Close()
		a.browser = nil
	}
	a.browserMu.Unlock()

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing store")
		}
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// setupLogger configures the global zerolog logger from config and returns it.
func setupLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}

	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
