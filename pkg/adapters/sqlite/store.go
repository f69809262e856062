// Package sqlite implements core.Store as a key/value table in a single
// SQLite database file. Each slot is one row holding a JSON document.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/quicknotes/pkg/core"
)

// DefaultFileName is the database file created inside a data directory.
const DefaultFileName = "quicknotes.db"

// Config holds the configuration for the SQLite store.
type Config struct {
	// Path is the database file.
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
}

// Store implements core.Store and core.Preferences on SQLite.
type Store struct {
	config Config
	db     *sql.DB

	mu       sync.RWMutex
	lastSave *time.Time
}

type settings struct {
	Theme core.Theme `json:"theme"`
}

// NewStore creates a store. The database is opened by Initialize.
func NewStore(config Config) *Store {
	return &Store{config: config}
}

// Initialize opens the database and creates the slots table.
func (s *Store) Initialize(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	dsn := s.config.Path + "?_busy_timeout=5000"
	if s.config.ReadOnly {
		dsn = "file:" + s.config.Path + "?mode=ro&_busy_timeout=5000"
	} else if err := os.MkdirAll(filepath.Dir(s.config.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if !s.config.ReadOnly {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if err := migrate(ctx, db); err != nil {
			db.Close()
			return err
		}
	}

	s.db = db
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// LoadNotes returns the saved notes or the defaults.
func (s *Store) LoadNotes(ctx context.Context) []core.Note {
	var notes []core.Note
	if !s.load(ctx, core.SlotNotes, &notes) || notes == nil {
		return core.DefaultNotes()
	}
	return notes
}

// SaveNotes replaces the notes row.
func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	return s.save(ctx, core.SlotNotes, notes)
}

// LoadTags returns the saved tags or the defaults.
func (s *Store) LoadTags(ctx context.Context) []string {
	var tags []string
	if !s.load(ctx, core.SlotTags, &tags) || tags == nil {
		return core.DefaultTags()
	}
	return tags
}

// SaveTags replaces the tags row.
func (s *Store) SaveTags(ctx context.Context, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return s.save(ctx, core.SlotTags, tags)
}

// LoadTheme implements core.Preferences.
func (s *Store) LoadTheme(ctx context.Context) core.Theme {
	var st settings
	if !s.load(ctx, core.SlotSettings, &st) {
		return core.ThemeLight
	}
	theme, err := core.ParseTheme(string(st.Theme))
	if err != nil {
		return core.ThemeLight
	}
	return theme
}

// SaveTheme implements core.Preferences.
func (s *Store) SaveTheme(ctx context.Context, theme core.Theme) error {
	return s.save(ctx, core.SlotSettings, settings{Theme: theme})
}

func (s *Store) load(ctx context.Context, slot core.Slot, v any) bool {
	if s.db == nil {
		s.debug("database not open, using defaults", "slot", slot)
		return false
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, string(slot)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.debug("slot missing, using defaults", "slot", slot)
		return false
	}
	if err != nil {
		s.warn("slot unreadable, using defaults", "slot", slot, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		s.warn("corrupt slot, using defaults", "slot", slot, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, slot core.Slot, v any) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", slot, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, string(slot), string(data))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", slot, err)
	}

	s.mu.Lock()
	now := time.Now()
	s.lastSave = &now
	s.mu.Unlock()
	return nil
}

func (s *Store) debug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

func (s *Store) warn(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, args...)
	}
}

var _ core.Store = (*Store)(nil)
var _ core.Preferences = (*Store)(nil)
