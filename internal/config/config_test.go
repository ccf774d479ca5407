package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("Expected default timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.MaxPages != DefaultMaxPages {
		t.Errorf("Expected default max pages, got %d", cfg.MaxPages)
	}
	if !cfg.Headless {
		t.Error("Expected headless by default")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("QUOTES_BASE_URL", "http://quotes.example.test")
	t.Setenv("QUOTES_MAX_PAGES", "5")
	t.Setenv("QUOTES_HTTP_TIMEOUT", "3s")
	t.Setenv("QUOTES_GRID_ENDPOINT", "ws://selenium-grid:4444")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != "http://quotes.example.test" {
		t.Errorf("Env base URL not applied: %q", cfg.BaseURL)
	}
	if cfg.MaxPages != 5 {
		t.Errorf("Env max pages not applied: %d", cfg.MaxPages)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("Env timeout not applied: %s", cfg.HTTPTimeout)
	}
	if cfg.GridEndpoint != "ws://selenium-grid:4444" {
		t.Errorf("Grid endpoint not applied: %q", cfg.GridEndpoint)
	}
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("QUOTES_BASE_URL", "not a url")

	if _, err := Load(nil); err == nil {
		t.Fatal("Expected error for invalid base URL")
	}
}

func TestLoad_InvalidMaxPages(t *testing.T) {
	t.Setenv("QUOTES_MAX_PAGES", "0")

	_, err := Load(nil)
	if err == nil || !strings.Contains(err.Error(), "max pages") {
		t.Fatalf("Expected max pages validation error, got %v", err)
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "quotes"}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags([]string{"--timeout=3s", "--base-url=http://quotes.example.test"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("Flag timeout not applied: %s", cfg.HTTPTimeout)
	}
	if cfg.BaseURL != "http://quotes.example.test" {
		t.Errorf("Flag base URL not applied: %q", cfg.BaseURL)
	}
}

func TestLoad_InvalidTimeoutFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "quotes"}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags([]string{"--timeout=banana"}); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cmd)
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("Expected timeout parse error, got %v", err)
	}
}

func TestDBPath(t *testing.T) {
	cfg := &Config{DataDir: "data"}
	if got := cfg.DBPath(); got != filepath.Join("data", DefaultDBFile) {
		t.Errorf("Unexpected DB path: %q", got)
	}
}
