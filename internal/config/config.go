package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Config holds application configuration values.
//
// Resolution order: defaults, then a .env file if present, then QUOTES_*
// environment variables, then CLI flags. The struct is built once at startup
// and passed explicitly; nothing reads the environment after Load returns.
type Config struct {
	// Logging
	LogLevel string `envconfig:"LOG_LEVEL"`
	JSONLog  bool   `envconfig:"JSON_LOG"`

	// Target site
	BaseURL     string        `envconfig:"BASE_URL"`
	UserAgent   string        `envconfig:"USER_AGENT"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT"`

	// Filesystem layout
	DataDir       string `envconfig:"DATA_DIR"`
	ScreenshotDir string `envconfig:"SCREENSHOT_DIR"`

	// Scraping
	MaxPages       int     `envconfig:"MAX_PAGES"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST"`
	RetryAttempts  int     `envconfig:"RETRY_ATTEMPTS"`

	// Browser
	GridEndpoint string `envconfig:"GRID_ENDPOINT"`
	ChromePath   string `envconfig:"CHROME_PATH"`
	Headless     bool   `envconfig:"HEADLESS"`
}

// DBPath returns the SQLite database location under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DefaultDBFile)
}

// EnsureDirs creates the data and screenshot directories if missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.ScreenshotDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load builds a Config by combining defaults, an optional .env file,
// QUOTES_* environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		HTTPTimeout:    DefaultHTTPTimeout,
		DataDir:        DefaultDataDir,
		ScreenshotDir:  DefaultScreenshotDir,
		MaxPages:       DefaultMaxPages,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		RetryAttempts:  DefaultRetryAttempts,
		Headless:       DefaultHeadless,
	}

	// A missing .env is the normal case when vars are injected by the
	// environment (containers, CI); only report a file that fails to parse.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Warn().Err(err).Msg(".env file found but could not be loaded")
		}
	}

	if err := envconfig.Process("quotes", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("base-url"); f != nil && f.Changed {
			cfg.BaseURL = f.Value.String()
		}
		if f := cmd.Flags().Lookup("data-dir"); f != nil && f.Changed {
			cfg.DataDir = f.Value.String()
		}
		if f := cmd.Flags().Lookup("user-agent"); f != nil && f.Changed {
			cfg.UserAgent = f.Value.String()
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
			d, err := time.ParseDuration(f.Value.String())
			if err != nil {
				return nil, fmt.Errorf("invalid --timeout value %q: %w", f.Value.String(), err)
			}
			cfg.HTTPTimeout = d
		}
		if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
			cfg.JSONLog = true
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
