package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultBaseURL        = "http://quotes.toscrape.com"
	DefaultUserAgent      = "quotes-scraper/1.0 (https://github.com/tgvieirabr/quotes-scraper)"
	DefaultHTTPTimeout    = 10 * time.Second
	DefaultDataDir        = "data"
	DefaultScreenshotDir  = "screenshots"
	DefaultDBFile         = "quotes.db"
	DefaultMaxPages       = 100
	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 4
	DefaultRetryAttempts  = 3
	DefaultRetryBackoff   = 1 * time.Second
	DefaultHeadless       = true
	DefaultWindowWidth    = 1920
	DefaultWindowHeight   = 1080
)
