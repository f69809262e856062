package fs_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/git"
)

func newStore(t *testing.T, cfg fs.Config) *fs.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	s := fs.NewStore(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStore_Defaults(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})

	assert.Equal(t, core.DefaultNotes(), s.LoadNotes(ctx))
	assert.Equal(t, core.DefaultTags(), s.LoadTags(ctx))
	assert.Equal(t, core.ThemeLight, s.LoadTheme(ctx))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, format := range []string{fs.FormatJSON, fs.FormatYAML} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			s := newStore(t, fs.Config{Path: dir, Format: format})

			notes := []core.Note{
				{ID: "a", Title: "Список покупок", Content: "молоко\nхлеб", Tag: "Personal"},
				{ID: "b", Title: "Plain", Content: "", Tag: core.NoTag},
			}
			tags := []string{"Work", "Идеи"}

			require.NoError(t, s.SaveNotes(ctx, notes))
			require.NoError(t, s.SaveTags(ctx, tags))
			require.NoError(t, s.SaveTheme(ctx, core.ThemeDark))

			assert.FileExists(t, filepath.Join(dir, "notes."+format))

			// A fresh store over the same directory sees the same data.
			reopened := fs.NewStore(fs.Config{Path: dir, Format: format})
			assert.Equal(t, notes, reopened.LoadNotes(ctx))
			assert.Equal(t, tags, reopened.LoadTags(ctx))
			assert.Equal(t, core.ThemeDark, reopened.LoadTheme(ctx))
		})
	}
}

func TestStore_EmptyCollectionsSurvive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})

	require.NoError(t, s.SaveNotes(ctx, nil))
	require.NoError(t, s.SaveTags(ctx, []string{}))

	assert.Empty(t, s.LoadNotes(ctx))
	assert.NotNil(t, s.LoadNotes(ctx))
	assert.Empty(t, s.LoadTags(ctx))
}

func TestStore_CorruptSlotFallsBack(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dir := t.TempDir()
	s := newStore(t, fs.Config{Path: dir, Logger: logger})

	require.NoError(t, os.WriteFile(s.SlotPath(core.SlotNotes), []byte("{broken"), 0644))
	require.NoError(t, os.WriteFile(s.SlotPath(core.SlotTags), []byte(`{"not":"a list"}`), 0644))
	require.NoError(t, os.WriteFile(s.SlotPath(core.SlotSettings), []byte(`{"theme":"sepia"}`), 0644))

	assert.Equal(t, core.DefaultNotes(), s.LoadNotes(ctx))
	assert.Equal(t, core.DefaultTags(), s.LoadTags(ctx))
	assert.Equal(t, core.ThemeLight, s.LoadTheme(ctx))
	assert.Contains(t, logs.String(), "corrupt slot")
}

func TestStore_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})

	require.NoError(t, s.SaveTags(ctx, []string{"Only"}))
	require.NoError(t, os.WriteFile(s.SlotPath(core.SlotNotes), []byte("garbage"), 0644))

	assert.Equal(t, core.DefaultNotes(), s.LoadNotes(ctx))
	assert.Equal(t, []string{"Only"}, s.LoadTags(ctx))
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writer := newStore(t, fs.Config{Path: dir})
	require.NoError(t, writer.SaveTags(ctx, []string{"Kept"}))

	s := newStore(t, fs.Config{Path: dir, ReadOnly: true})

	assert.ErrorIs(t, s.SaveNotes(ctx, core.DefaultNotes()), core.ErrReadOnly)
	assert.ErrorIs(t, s.SaveTags(ctx, nil), core.ErrReadOnly)
	assert.ErrorIs(t, s.SaveTheme(ctx, core.ThemeDark), core.ErrReadOnly)
	assert.Equal(t, []string{"Kept"}, s.LoadTags(ctx))
	assert.NoFileExists(t, s.SlotPath(core.SlotNotes))
}

func TestStore_MustExist(t *testing.T) {
	s := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
	assert.Error(t, s.Initialize(context.Background()))
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{Format: fs.FormatYAML})

	st, ok := s.State().(fs.StoreState)
	require.True(t, ok)
	assert.Equal(t, ".yaml", st.Format)
	assert.Equal(t, fs.DefaultSystemDir, st.SystemDir)
	assert.Nil(t, st.LastSave)

	require.NoError(t, s.SaveTags(ctx, []string{"x"}))
	st = s.State().(fs.StoreState)
	assert.NotNil(t, st.LastSave)
	assert.Equal(t, "fs", s.ComponentType())
}

func TestStore_Versioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	dir := t.TempDir()
	s := newStore(t, fs.Config{Path: dir, Versioned: true, AutoInit: true})

	require.NoError(t, s.SaveNotes(ctx, core.DefaultNotes()))
	// Saving the same content again must not fail on an empty commit.
	require.NoError(t, s.SaveNotes(ctx, core.DefaultNotes()))
	require.NoError(t, s.SaveTags(ctx, []string{"Work"}))

	out, err := exec.Command("git", "-C", dir, "log", "--format=%s").Output()
	require.NoError(t, err)
	subjects := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, []string{
		"docs(tags): save 1 tags",
		"docs(notes): save 3 notes",
		"chore: configure .quicknotes ignore",
	}, subjects)

	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), ".quicknotes/")
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	s := newStore(t, fs.Config{Path: dir})
	require.NoError(t, s.SaveNotes(ctx, core.DefaultNotes()))

	events, err := s.Watch(ctx, "tags")
	require.NoError(t, err)

	// Another writer touching the same directory.
	other := fs.NewStore(fs.Config{Path: dir})
	require.NoError(t, other.SaveNotes(ctx, nil))
	require.NoError(t, other.SaveTags(ctx, []string{"External"}))

	select {
	case e := <-events:
		assert.Equal(t, core.SlotTags, e.Slot)
		assert.Equal(t, core.EventCreate, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	assert.Eventually(t, func() bool {
		return s.State().(fs.StoreState).WatcherActive
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_WatchInvalidPattern(t *testing.T) {
	s := newStore(t, fs.Config{})
	_, err := s.Watch(context.Background(), "[")
	assert.Error(t, err)
}
