// Package prefs is the browser profile's durable preference store,
// backed by SQLite via modernc.org/sqlite (pure Go, no CGO).
//
// Reads and writes degrade silently: a failed read behaves like an
// unset preference and a failed write is logged and dropped. Profile
// storage trouble must never take the browser down.
package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// Store persists preferences as string key-value rows. It satisfies the
// marketing package's Prefs interface and is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens (or creates) the preference database at path and applies
// pending schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: database path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	// WAL mode for concurrent access, 5s busy timeout for lock contention.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("prefs: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: run migrations: %w", err)
	}

	return &Store{
		db:   db,
		path: path,
		log:  logger.With("component", "prefs"),
	}, nil
}

// Bool returns the boolean preference stored under key. ok is false
// when the key is unset or unreadable.
func (s *Store) Bool(key string) (value, ok bool) {
	raw, ok := s.get(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.log.Warn("preference is not a bool, treating as unset", "key", key, "value", raw)
		return false, false
	}
	return v, true
}

// SetBool stores a boolean preference under key.
func (s *Store) SetBool(key string, value bool) {
	s.set(key, strconv.FormatBool(value))
}

// String returns the string preference stored under key.
func (s *Store) String(key string) (value string, ok bool) {
	return s.get(key)
}

// SetString stores a string preference under key.
func (s *Store) SetString(key, value string) {
	s.set(key, value)
}

func (s *Store) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.log.Warn("preference read failed, treating as unset", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *Store) set(key, value string) {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO prefs (key, value) VALUES (?, ?)",
		key, value,
	)
	if err != nil {
		s.log.Warn("preference write failed", "key", key, "error", err)
	}
}

// Clear deletes every preference. The schema stays in place; the next
// read simply misses. Used by the "clear private data" flow.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM prefs"); err != nil {
		return fmt.Errorf("prefs: clear: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
