// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/navigation"
	"github.com/jonathan/portfolio/internal/notify"
)

// EnvPrefix marks environment variables that override file values:
// PORTFOLIO_WEBHOOK_URL sets webhook_url, and so on.
const EnvPrefix = "PORTFOLIO_"

// Config is the renderer configuration. Values come from the defaults, then
// the config file (YAML or JSON), then PORTFOLIO_* environment variables,
// and finally any CLI flag the user set explicitly.
type Config struct {
	// Inputs
	Content   string `koanf:"content"`   // Content file path or URL
	Shell     string `koanf:"shell"`     // Page shell HTML; empty uses the built-in shell
	Templates string `koanf:"templates"` // Directory of fragment template overrides

	// Output
	OutDir     string   `koanf:"out_dir"`     // Directory the rendered site is written to
	AssetsRoot string   `koanf:"assets_root"` // Directory asset globs are matched against
	Assets     []string `koanf:"assets"`      // Doublestar globs copied next to index.html

	// Page environment
	ViewportWidth int    `koanf:"viewport_width"`
	ColorScheme   string `koanf:"color_scheme"` // "light" or "dark"
	KeyScope      string `koanf:"key_scope"`    // "global" or "outside-text-input"
	PageURL       string `koanf:"page_url"`
	UserAgent     string `koanf:"user_agent"`

	// Outbound
	RelayURL   string `koanf:"relay_url"`   // Contact form relay endpoint
	WebhookURL string `koanf:"webhook_url"` // Visit beacon webhook; empty disables the beacon

	// Storage and fetching
	DataDir    string        `koanf:"data_dir"`    // Directory holding portfolio.db
	CacheTTL   time.Duration `koanf:"cache_ttl"`   // Max age of cached remote content
	UseBrowser bool          `koanf:"use_browser"` // Preview through a headless browser

	// Serving
	Port    int  `koanf:"port"`
	Verbose bool `koanf:"verbose"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		OutDir:        "dist",
		ViewportWidth: 1280,
		ColorScheme:   "light",
		KeyScope:      string(navigation.KeyScopeOutsideTextInput),
		PageURL:       "http://localhost/",
		UserAgent:     fetch.DefaultUserAgent,
		RelayURL:      notify.DefaultRelayURL,
		DataDir:       ".portfolio",
		CacheTTL:      fetch.DefaultCacheTTL,
		Port:          8080,
	}
}

// LoadConfig builds a Config from the defaults, the file at path (skipped
// when path is empty) and PORTFOLIO_* environment variables.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		// JSON is valid YAML, so one parser covers both formats
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Required inputs are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.ViewportWidth <= 0 {
		return fmt.Errorf("config error: 'viewport_width' must be positive")
	}
	if c.ColorScheme != "light" && c.ColorScheme != "dark" {
		return fmt.Errorf("config error: 'color_scheme' must be light or dark, got %q", c.ColorScheme)
	}
	if _, err := navigation.ParseKeyScope(c.KeyScope); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if err := checkHTTPURL("relay_url", c.RelayURL, true); err != nil {
		return err
	}
	if err := checkHTTPURL("webhook_url", c.WebhookURL, false); err != nil {
		return err
	}

	if c.Content != "" && !fetch.IsURL(c.Content) {
		if _, err := os.Stat(c.Content); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.Content)
		}
	}
	if c.Shell != "" {
		if _, err := os.Stat(c.Shell); os.IsNotExist(err) {
			return fmt.Errorf("config error: shell file not found: %s", c.Shell)
		}
	}
	if c.Templates != "" {
		if _, err := os.Stat(c.Templates); os.IsNotExist(err) {
			return fmt.Errorf("config error: templates directory not found: %s", c.Templates)
		}
	}
	return nil
}

func checkHTTPURL(key, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("config error: '%s' is required", key)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: '%s' must be an http(s) URL, got %q", key, raw)
	}
	return nil
}
