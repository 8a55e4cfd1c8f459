// Package storage keeps the page's client-side state in SQLite: a local store
// that survives sessions and per-session stores that are cleared when the
// session ends.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSessionEnded is returned when writing to a session that has ended
var ErrSessionEnded = errors.New("session has ended")

// Store wraps the SQLite database
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database in dataDir and runs pending migrations.
// Pass ":memory:" for an in-memory database.
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "portfolio.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// One connection: an in-memory database is per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parsing migration version from %q: %w", entry.Name(), err)
		}

		var applied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// AppliedMigrations returns the applied migration versions in ascending order
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Local storage ---

// Local is the persistent key-value store
type Local struct {
	db *sql.DB
}

// Local returns the persistent store
func (s *Store) Local() *Local {
	return &Local{db: s.db}
}

// Get returns the value for key and whether it exists
func (l *Local) Get(key string) (string, bool, error) {
	var value string
	err := l.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (l *Local) Set(key, value string) error {
	_, err := l.db.Exec(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (l *Local) Delete(key string) error {
	if _, err := l.db.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// --- Session storage ---

// Session is the key-value store of one browsing session
type Session struct {
	db *sql.DB
	id string
}

// NewSession starts a session with a fresh ID
func (s *Store) NewSession() (*Session, error) {
	id := uuid.New().String()
	if _, err := s.db.Exec("INSERT INTO sessions (id) VALUES (?)", id); err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	return &Session{db: s.db, id: id}, nil
}

// CurrentSession resumes the most recent session that has not ended, starting
// a new one when there is none.
func (s *Store) CurrentSession() (*Session, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM sessions WHERE ended_at IS NULL
		ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return s.NewSession()
	}
	if err != nil {
		return nil, fmt.Errorf("finding current session: %w", err)
	}
	return &Session{db: s.db, id: id}, nil
}

// ID returns the session identifier
func (ss *Session) ID() string { return ss.id }

// Get returns the value for key and whether it exists
func (ss *Session) Get(key string) (string, bool, error) {
	var value string
	err := ss.db.QueryRow(
		"SELECT value FROM session_storage WHERE session_id = ? AND key = ?", ss.id, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading session %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for this session
func (ss *Session) Set(key, value string) error {
	ended, err := ss.ended()
	if err != nil {
		return err
	}
	if ended {
		return ErrSessionEnded
	}
	_, err = ss.db.Exec(`
		INSERT INTO session_storage (session_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value`,
		ss.id, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing session %q: %w", key, err)
	}
	return nil
}

func (ss *Session) ended() (bool, error) {
	var endedAt sql.NullString
	err := ss.db.QueryRow("SELECT ended_at FROM sessions WHERE id = ?", ss.id).Scan(&endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return endedAt.Valid, nil
}

// End closes the session and discards everything stored in it
func (ss *Session) End() error {
	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM session_storage WHERE session_id = ?", ss.id); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing session: %w", err)
	}
	if _, err := tx.Exec("UPDATE sessions SET ended_at = CURRENT_TIMESTAMP WHERE id = ?", ss.id); err != nil {
		tx.Rollback()
		return fmt.Errorf("ending session: %w", err)
	}
	return tx.Commit()
}
