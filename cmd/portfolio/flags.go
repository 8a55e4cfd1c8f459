package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/portfolio/internal/config"
)

// addPageFlags registers the flags shared by commands that boot a page
func addPageFlags(fs *pflag.FlagSet) {
	fs.StringP("content", "c", "", "Content file path or URL")
	fs.String("shell", "", "Page shell HTML (default: built-in shell)")
	fs.String("templates", "", "Directory of fragment template overrides")
	fs.StringP("out", "o", "", "Output directory")
	fs.String("assets-root", "", "Directory asset patterns are matched against")
	fs.StringSlice("assets", nil, "Asset glob patterns to copy, e.g. 'images/**'")
	fs.Int("viewport-width", 0, "Viewport width used for layout decisions")
	fs.String("color-scheme", "", "Preferred color scheme: light or dark")
	fs.String("key-scope", "", "Arrow key scope: global or outside-text-input")
	fs.String("relay-url", "", "Contact form relay endpoint")
	fs.String("webhook-url", "", "Visit beacon webhook (empty disables the beacon)")
	fs.Duration("cache-ttl", 0, "Max age of cached remote content")
}

// addDataFlag registers --data-dir
func addDataFlag(fs *pflag.FlagSet) {
	fs.String("data-dir", "", "Directory holding the state database")
}

// loadConfig reads the config file and environment, then applies every flag
// the user set explicitly. Flags a command did not register are ignored.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	stringFlags := map[string]*string{
		"content":      &cfg.Content,
		"shell":        &cfg.Shell,
		"templates":    &cfg.Templates,
		"out":          &cfg.OutDir,
		"assets-root":  &cfg.AssetsRoot,
		"color-scheme": &cfg.ColorScheme,
		"key-scope":    &cfg.KeyScope,
		"relay-url":    &cfg.RelayURL,
		"webhook-url":  &cfg.WebhookURL,
		"data-dir":     &cfg.DataDir,
	}
	for name, dst := range stringFlags {
		if changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return nil, err
			}
		}
	}
	if changed("assets") {
		if cfg.Assets, err = flags.GetStringSlice("assets"); err != nil {
			return nil, err
		}
	}
	if changed("viewport-width") {
		if cfg.ViewportWidth, err = flags.GetInt("viewport-width"); err != nil {
			return nil, err
		}
	}
	if changed("cache-ttl") {
		if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
			return nil, err
		}
	}
	if changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return nil, err
		}
	}
	if changed("use-browser") {
		if cfg.UseBrowser, err = flags.GetBool("use-browser"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
