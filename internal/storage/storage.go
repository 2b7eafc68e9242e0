// Package storage persists user data in a local SQLite database:
// preferences, game history, saved players, and custom people lists.
// It is invoked at session boundaries only and never from the
// round-to-round hot path.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	gender_filter TEXT NOT NULL,
	age_min INTEGER NOT NULL,
	age_max INTEGER NOT NULL,
	sound_enabled INTEGER NOT NULL,
	haptics_enabled INTEGER NOT NULL,
	timer_config TEXT NOT NULL,
	onboarding_complete INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_history (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	category_id TEXT NOT NULL,
	category_name TEXT NOT NULL,
	players TEXT NOT NULL,
	rounds TEXT NOT NULL,
	total_rounds INTEGER NOT NULL,
	played_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_played_at ON game_history (played_at);

CREATE TABLE IF NOT EXISTS saved_players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	avatar_color TEXT NOT NULL,
	gender_filter TEXT NOT NULL,
	age_min INTEGER NOT NULL,
	age_max INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	last_played_at INTEGER
);

CREATE TABLE IF NOT EXISTS custom_lists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	prompt TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS custom_people (
	id TEXT PRIMARY KEY,
	list_id TEXT NOT NULL REFERENCES custom_lists (id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	gender TEXT NOT NULL,
	birth_year INTEGER NOT NULL DEFAULT 0,
	image_url TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_custom_people_list ON custom_people (list_id);
`

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
