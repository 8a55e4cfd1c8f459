package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/portfolio/internal/storage"
)

// DefaultCacheTTL is how long a fetched document is reused
const DefaultCacheTTL = 10 * time.Minute

// Cache is the persistent store behind CachedFetcher
type Cache interface {
	Lookup(url string, maxAge time.Duration) (*storage.CachedPage, error)
	Save(p storage.CachedPage) error
	Invalidate(url string) error
}

// CachedFetcher wraps URL with a persistent cache. A nil cache fetches every time.
type CachedFetcher struct {
	cache     Cache
	options   *Options
	cacheTTL  time.Duration
	skipCache bool
	logger    *slog.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
	Logger    *slog.Logger
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(cache Cache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{
		cache:     cache,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		logger:    logger,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch returns the cached document when fresh, otherwise fetches and caches it.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	useCache := f.cache != nil && !f.skipCache

	if useCache {
		cached, err := f.cache.Lookup(urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check cache: %w", err)
		}
		if cached != nil {
			return &CachedResult{
				Result: &Result{
					URL:         cached.URL,
					Body:        cached.Body,
					ContentType: cached.ContentType,
					StatusCode:  cached.StatusCode,
				},
				FromCache: true,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		err := f.cache.Save(storage.CachedPage{
			URL:         result.URL,
			Body:        result.Body,
			ContentType: result.ContentType,
			StatusCode:  result.StatusCode,
		})
		if err != nil {
			f.logger.Warn("could not cache fetched document", "url", urlStr, "error", err)
		}
	}
	return &CachedResult{Result: result}, nil
}

// InvalidateCache forces a re-fetch on the next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Invalidate(urlStr)
}
