// Package fs implements core.Store on the local filesystem: one file per
// slot, written atomically, optionally versioned with git.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/git"
)

// DefaultSystemDir is the hidden directory for locks and other bookkeeping.
const DefaultSystemDir = ".quicknotes"

// Store implements core.Store using the filesystem and, optionally, Git.
type Store struct {
	Path       string
	git        *git.Client
	config     Config
	serializer Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastSave      *time.Time
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	Format       string // FormatJSON (default) or FormatYAML
	Serializer   Serializer
	Strict       bool
	AutoInit     bool
	MustExist    bool
	Versioned    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".quicknotes"
	EventBuffer  int
	ErrorHandler func(error)
}

// settings is the on-disk shape of the settings slot.
type settings struct {
	Theme core.Theme `json:"theme" yaml:"theme"`
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	serializer := config.Serializer
	if serializer == nil {
		serializers := DefaultSerializers(config.Strict)
		var ok bool
		if serializer, ok = serializers[config.Format]; !ok {
			serializer = serializers[FormatJSON]
		}
	}
	return &Store{
		Path:       config.Path,
		git:        git.NewClient(config.Path, filepath.Join(config.SystemDir, "git.lock"), config.Logger),
		config:     config,
		serializer: serializer,
	}
}

// Initialize prepares the data directory and, when versioned, the git repository.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		return nil
	}

	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	if !s.config.Versioned {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := s.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		msg := git.FormatCommitMessage(git.CommitTypeChore, "", fmt.Sprintf("configure %s ignore", s.config.SystemDir), "")
		if err := s.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	ignoreEntry := s.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// SlotPath returns the absolute file path of a slot.
func (s *Store) SlotPath(slot core.Slot) string {
	return filepath.Join(s.Path, s.slotFile(slot))
}

func (s *Store) slotFile(slot core.Slot) string {
	return string(slot) + s.serializer.Ext()
}

// LoadNotes returns the saved notes or the defaults.
func (s *Store) LoadNotes(ctx context.Context) []core.Note {
	var notes []core.Note
	if !s.load(core.SlotNotes, &notes) || notes == nil {
		return core.DefaultNotes()
	}
	return notes
}

// SaveNotes atomically replaces the notes slot.
func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	return s.save(ctx, core.SlotNotes, notes, fmt.Sprintf("save %d notes", len(notes)))
}

// LoadTags returns the saved tags or the defaults.
func (s *Store) LoadTags(ctx context.Context) []string {
	var tags []string
	if !s.load(core.SlotTags, &tags) || tags == nil {
		return core.DefaultTags()
	}
	return tags
}

// SaveTags atomically replaces the tags slot.
func (s *Store) SaveTags(ctx context.Context, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return s.save(ctx, core.SlotTags, tags, fmt.Sprintf("save %d tags", len(tags)))
}

// LoadTheme implements core.Preferences. Unknown values read as light.
func (s *Store) LoadTheme(ctx context.Context) core.Theme {
	var st settings
	if !s.load(core.SlotSettings, &st) {
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
	return s.save(ctx, core.SlotSettings, settings{Theme: theme}, "set theme "+string(theme))
}

// load decodes a slot into v. It reports false when the slot is missing or
// unreadable; both cases are absorbed here and only logged.
func (s *Store) load(slot core.Slot, v any) bool {
	path := s.SlotPath(slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.debug("slot missing, using defaults", "slot", slot, "path", path)
		} else {
			s.warn("slot unreadable, using defaults", "slot", slot, "path", path, "error", err)
		}
		return false
	}
	if err := s.serializer.Parse(data, v); err != nil {
		s.warn("corrupt slot, using defaults", "slot", slot, "path", path, "error", err)
		return false
	}
	return true
}

// save serializes v and writes it atomically.
//
// Workflow:
//  1. Refuse in read-only mode.
//  2. Serialize with the configured format.
//  3. Stage next to the slot and rename over it.
//  4. (If versioned) 'git add' and 'git commit' when the slot changed.
func (s *Store) save(ctx context.Context, slot core.Slot, v any, subject string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	data, err := s.serializer.Serialize(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", slot, err)
	}

	if err := s.replaceSlot(slot, data); err != nil {
		return err
	}

	s.mu.Lock()
	now := time.Now()
	s.lastSave = &now
	s.mu.Unlock()

	if s.config.Versioned {
		if err := s.commit(slot, subject); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) commit(slot core.Slot, subject string) error {
	unlock, err := s.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	filename := s.slotFile(slot)
	if err := s.git.Add(filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	changed, err := s.git.HasStagedChanges(filename)
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	if !changed {
		return nil
	}

	msg := git.FormatCommitMessage(git.CommitTypeDocs, string(slot), subject, "")
	if err := s.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
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
var _ core.Watchable = (*Store)(nil)
