package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/dom"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/rendering"
)

var previewCmd = &cobra.Command{
	Use:   "preview <page>",
	Short: "Report which section mount points a page carries",
	Long: `Loads a page (a file, a URL, or a URL rendered through headless Chrome with
--use-browser) and reports, per section, whether its mount point exists and
whether it has been filled in. Useful for checking a custom shell or a
deployed site.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Bool("use-browser", false, "Render URLs through headless Chrome before inspecting")
	previewCmd.Flags().Int("viewport-width", 0, "Browser window width")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	markup, err := loadPage(cmd.Context(), args[0], cfg.UseBrowser, cfg.ViewportWidth)
	if err != nil {
		return err
	}
	return previewMarkup(os.Stdout, markup)
}

func loadPage(ctx context.Context, src string, useBrowser bool, width int) (string, error) {
	if !fetch.IsURL(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("failed to read page: %w", err)
		}
		return string(data), nil
	}
	if useBrowser {
		return fetch.WithBrowser(ctx, src, fetch.BrowserOptions{
			WindowWidth: width,
			Logger:      slog.Default(),
		})
	}
	res, err := fetch.URL(ctx, src, nil)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

// previewMarkup prints the mount point report for a page
func previewMarkup(out io.Writer, markup string) error {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	observability.NewPrinter(out).PrintMounts(rendering.NewRenderer(nil).Inspect(doc))
	return nil
}
