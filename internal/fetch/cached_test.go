package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/storage"
)

func openCache(t *testing.T) *storage.FetchCache {
	t.Helper()
	s, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.FetchCache()
}

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()
	require.NotNil(t, config)
	assert.Equal(t, DefaultCacheTTL, config.CacheTTL)
	assert.False(t, config.SkipCache)
	require.NotNil(t, config.Options)
	assert.Equal(t, DefaultTimeout, config.Options.Timeout)
}

func TestCachedFetcher_ServesFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"site": {"title": "Ada"}}`))
	}))
	defer server.Close()

	f := NewCachedFetcher(openCache(t), nil)

	first, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, "application/json", second.ContentType)
	assert.Equal(t, int32(1), hits.Load())

	require.NoError(t, f.InvalidateCache(server.URL))
	third, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewCachedFetcher(openCache(t), &CachedFetcherConfig{SkipCache: true})
	for i := 0; i < 2; i++ {
		res, err := f.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, res.FromCache)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_NilCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewCachedFetcher(nil, nil)
	res, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Body)
	assert.NoError(t, f.InvalidateCache(server.URL))
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := openCache(t)
	f := NewCachedFetcher(cache, nil)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	page, err := cache.Lookup(server.URL, 0)
	require.NoError(t, err)
	assert.Nil(t, page)
}
