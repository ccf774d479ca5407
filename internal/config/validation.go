package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be > 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be > 0 requests per second")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be >= 1")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || !strings.HasPrefix(u.Scheme, "http") {
		return fmt.Errorf("base url %q is not a valid http(s) URL", c.BaseURL)
	}
	if c.GridEndpoint != "" {
		if _, err := url.Parse(c.GridEndpoint); err != nil {
			return fmt.Errorf("grid endpoint %q is not a valid URL: %w", c.GridEndpoint, err)
		}
	}
	return nil
}
