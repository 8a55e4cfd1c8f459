package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/dom"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/navigation"
	"github.com/jonathan/portfolio/internal/notify"
	"github.com/jonathan/portfolio/internal/pipeline"
	"github.com/jonathan/portfolio/internal/rendering"
	"github.com/jonathan/portfolio/internal/storage"
	"github.com/jonathan/portfolio/internal/types"
)

// site holds what every page build needs: configuration, the state store
// and the content fetcher. client carries the notifier requests and has no
// timeout of its own; the caller's context bounds them.
type site struct {
	cfg     *config.Config
	store   *storage.Store
	fetcher *fetch.CachedFetcher
	client  *http.Client
	logger  *slog.Logger
}

func openSite(cfg *config.Config, logger *slog.Logger) (*site, error) {
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return &site{
		cfg:   cfg,
		store: store,
		fetcher: fetch.NewCachedFetcher(store.FetchCache(), &fetch.CachedFetcherConfig{
			CacheTTL: cfg.CacheTTL,
			Logger:   logger,
		}),
		client: &http.Client{},
		logger: logger,
	}, nil
}

func (s *site) Close() error {
	return s.store.Close()
}

// buildResult is one finished page build
type buildResult struct {
	Content *types.Portfolio
	Page    *pipeline.Page
	Export  *pipeline.ExportResult
}

// loadContent reads the configured content file or URL
func (s *site) loadContent(ctx context.Context) (*types.Portfolio, error) {
	if s.cfg.Content == "" {
		return nil, fmt.Errorf("no content given: pass --content or set 'content' in the config")
	}
	return content.Open(ctx, s.fetcher, s.cfg.Content)
}

// boot renders the content into the shell and binds the page. The visit
// beacon runs in the current session and is awaited before returning.
func (s *site) boot(ctx context.Context, portfolio *types.Portfolio) (*pipeline.Page, error) {
	var shell string
	if s.cfg.Shell != "" {
		data, err := os.ReadFile(s.cfg.Shell)
		if err != nil {
			return nil, fmt.Errorf("failed to read shell: %w", err)
		}
		shell = string(data)
	}

	var fragments *rendering.Fragments
	if s.cfg.Templates != "" {
		f, err := rendering.LoadFragments(s.cfg.Templates)
		if err != nil {
			return nil, err
		}
		fragments = f
	}

	scope, err := navigation.ParseKeyScope(s.cfg.KeyScope)
	if err != nil {
		return nil, err
	}

	session, err := s.store.CurrentSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	page, err := pipeline.Boot(ctx, pipeline.Options{
		Shell:      shell,
		Content:    portfolio,
		Fragments:  fragments,
		Window:     dom.NewWindow(float64(s.cfg.ViewportWidth), s.cfg.ColorScheme),
		LocalStore: s.store.Local(),
		Session:    session,
		Relay:      notify.NewRelay(s.cfg.RelayURL, s.client),
		WebhookURL: s.cfg.WebhookURL,
		HTTPClient: s.client,
		PageURL:    s.cfg.PageURL,
		UserAgent:  s.cfg.UserAgent,
		KeyScope:   scope,
		Logger:     s.logger,
		OnProgress: func(ev pipeline.ProgressEvent) {
			s.logger.Debug("boot step", "step", ev.Step, "status", ev.Status, "message", ev.Message)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := page.Wait(); err != nil {
		s.logger.Warn("visit beacon failed", "error", err)
	}
	return page, nil
}

// build loads the content, boots the page and exports it to the output directory
func (s *site) build(ctx context.Context) (*buildResult, error) {
	portfolio, err := s.loadContent(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.boot(ctx, portfolio)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.Export(page, pipeline.ExportOptions{
		OutDir:     s.cfg.OutDir,
		AssetsRoot: s.cfg.AssetsRoot,
		Assets:     s.cfg.Assets,
	})
	if err != nil {
		return nil, err
	}
	return &buildResult{Content: portfolio, Page: page, Export: res}, nil
}
