package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	v1, err := s1.AppliedMigrations()
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v2, err := s2.AppliedMigrations()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, v1)
	assert.Equal(t, v1, v2)
}

func TestLocal_GetSetDelete(t *testing.T) {
	local := openTestStore(t).Local()

	_, ok, err := local.Get("portfolio-theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, local.Set("portfolio-theme", "dark"))
	require.NoError(t, local.Set("portfolio-theme", "light"))

	v, ok, err := local.Get("portfolio-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	require.NoError(t, local.Delete("portfolio-theme"))
	_, ok, err = local.Get("portfolio-theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Local().Set("portfolio-theme", "dark"))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err := s2.Local().Get("portfolio-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestSession_ScopedAndCleared(t *testing.T) {
	s := openTestStore(t)

	a, err := s.NewSession()
	require.NoError(t, err)
	b, err := s.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.Set("notified", "true"))
	_, ok, err := b.Get("notified")
	require.NoError(t, err)
	assert.False(t, ok, "sessions do not share values")

	require.NoError(t, a.End())
	_, ok, err = a.Get("notified")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, a.Set("notified", "true"), ErrSessionEnded)
}

func TestCurrentSession_ResumesUntilEnded(t *testing.T) {
	s := openTestStore(t)

	first, err := s.CurrentSession()
	require.NoError(t, err)
	again, err := s.CurrentSession()
	require.NoError(t, err)
	assert.Equal(t, first.ID(), again.ID())

	require.NoError(t, first.End())
	next, err := s.CurrentSession()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), next.ID())
}

func TestLocal_UnaffectedBySessionEnd(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Local().Set("portfolio-theme", "dark"))

	sess, err := s.CurrentSession()
	require.NoError(t, err)
	require.NoError(t, sess.End())

	v, ok, err := s.Local().Get("portfolio-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestFetchCache_LookupHonoursMaxAge(t *testing.T) {
	cache := openTestStore(t).FetchCache()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	page, err := cache.Lookup("https://example.com/portfolio.json", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, page)

	require.NoError(t, cache.Save(CachedPage{
		URL:         "https://example.com/portfolio.json",
		Body:        `{"site": {}}`,
		ContentType: "application/json",
		StatusCode:  200,
		FetchedAt:   now.Add(-30 * time.Minute),
	}))

	page, err = cache.Lookup("https://example.com/portfolio.json", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, `{"site": {}}`, page.Body)
	assert.Equal(t, "application/json", page.ContentType)
	assert.True(t, page.FetchedAt.Equal(now.Add(-30*time.Minute)))

	page, err = cache.Lookup("https://example.com/portfolio.json", 10*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, page, "stale entries are misses")

	require.NoError(t, cache.Invalidate("https://example.com/portfolio.json"))
	page, err = cache.Lookup("https://example.com/portfolio.json", 0)
	require.NoError(t, err)
	assert.Nil(t, page)
}
