package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultSettle is how long the page scripts get to run after load
const DefaultSettle = 2 * time.Second

// BrowserOptions configures a headless render.
type BrowserOptions struct {
	Timeout time.Duration
	Settle  time.Duration
	// WindowWidth sets the viewport width; zero keeps Chrome's default.
	WindowWidth  int
	WindowHeight int
	Logger       *slog.Logger
}

// WithBrowser loads url in headless Chrome, lets the page scripts run and
// returns the resulting document markup. Requires Chrome or Chromium.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Settle == 0 {
		opts.Settle = DefaultSettle
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("starting headless browser", "url", url)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.WindowWidth > 0 {
		height := opts.WindowHeight
		if height == 0 {
			height = 900
		}
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, height))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}
