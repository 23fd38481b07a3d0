package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Setting keys. Values are written back only on explicit user actions,
// never per-keystroke.
const (
	KeyInstruction          = "instruction"
	KeyExtraInstruction     = "extra_instruction"
	KeyContext              = "context"
	KeyServerURL            = "server_url"
	KeyModel                = "model"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyFormatJSON           = "format_json"
)

// defaults holds the value returned for a key that was never set.
var defaults = map[string]string{
	KeyInstruction:          "Create a short summary of the following content",
	KeyExtraInstruction:     "",
	KeyContext:              "",
	KeyServerURL:            "http://127.0.0.1:11434",
	KeyModel:                "llama3",
	KeyNotificationsEnabled: "false",
	KeyFormatJSON:           "false",
}

// Store handles persistence of the scalar user settings using SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new SQLite-backed settings store at the given path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the settings table if it doesn't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	return err
}

// Known reports whether key is a recognized setting.
func Known(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Keys returns all recognized setting keys.
func Keys() []string {
	return []string{
		KeyInstruction,
		KeyExtraInstruction,
		KeyContext,
		KeyServerURL,
		KeyModel,
		KeyNotificationsEnabled,
		KeyFormatJSON,
	}
}

// Get returns the stored value for key, or its default when unset.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return defaults[key]
	}
	return value
}

// GetBool returns the stored value for key interpreted as a boolean.
func (s *Store) GetBool(key string) bool {
	return s.Get(key) == "true"
}

// Set stores a value for key.
func (s *Store) Set(key, value string) error {
	if !Known(key) {
		return fmt.Errorf("unknown setting: %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// SetBool stores a boolean value for key.
func (s *Store) SetBool(key string, value bool) error {
	if value {
		return s.Set(key, "true")
	}
	return s.Set(key, "false")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
