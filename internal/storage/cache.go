package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CachedPage is a fetched remote document
type CachedPage struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// FetchCache stores fetched documents by URL
type FetchCache struct {
	db  *sql.DB
	now func() time.Time
}

// FetchCache returns the fetch cache
func (s *Store) FetchCache() *FetchCache {
	return &FetchCache{db: s.db, now: time.Now}
}

// Lookup returns the page cached for url when it is younger than maxAge.
// A zero maxAge accepts any age.
func (c *FetchCache) Lookup(url string, maxAge time.Duration) (*CachedPage, error) {
	var p CachedPage
	var fetchedAt string
	err := c.db.QueryRow(
		"SELECT url, body, content_type, status_code, fetched_at FROM fetch_cache WHERE url = ?", url,
	).Scan(&p.URL, &p.Body, &p.ContentType, &p.StatusCode, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached %s: %w", url, err)
	}
	p.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at for %s: %w", url, err)
	}
	if maxAge > 0 && c.now().Sub(p.FetchedAt) > maxAge {
		return nil, nil
	}
	return &p, nil
}

// Save stores or replaces the cached page for p.URL
func (c *FetchCache) Save(p CachedPage) error {
	if p.FetchedAt.IsZero() {
		p.FetchedAt = c.now()
	}
	_, err := c.db.Exec(`
		INSERT INTO fetch_cache (url, body, content_type, status_code, fetched_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			body = excluded.body,
			content_type = excluded.content_type,
			status_code = excluded.status_code,
			fetched_at = excluded.fetched_at`,
		p.URL, p.Body, p.ContentType, p.StatusCode, p.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("caching %s: %w", p.URL, err)
	}
	return nil
}

// Invalidate drops the cached page for url
func (c *FetchCache) Invalidate(url string) error {
	if _, err := c.db.Exec("DELETE FROM fetch_cache WHERE url = ?", url); err != nil {
		return fmt.Errorf("invalidating %s: %w", url, err)
	}
	return nil
}
