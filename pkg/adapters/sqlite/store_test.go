package sqlite_test

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/sqlite"
	"github.com/aretw0/quicknotes/pkg/core"
)

func setupTestStore(t *testing.T, cfg sqlite.Config) *sqlite.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "data", sqlite.DefaultFileName)
	}
	s := sqlite.NewStore(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Defaults(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, sqlite.Config{})

	assert.Equal(t, core.DefaultNotes(), s.LoadNotes(ctx))
	assert.Equal(t, core.DefaultTags(), s.LoadTags(ctx))
	assert.Equal(t, core.ThemeLight, s.LoadTheme(ctx))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), sqlite.DefaultFileName)
	s := setupTestStore(t, sqlite.Config{Path: path})

	notes := []core.Note{
		{ID: "1", Title: "Купить молоко", Content: "2 литра", Tag: "Personal"},
		{ID: "2", Title: "Standup", Content: "", Tag: core.NoTag},
	}
	require.NoError(t, s.SaveNotes(ctx, notes))
	require.NoError(t, s.SaveTags(ctx, []string{"Work"}))
	require.NoError(t, s.SaveTags(ctx, []string{"Work", "Ideas"}))
	require.NoError(t, s.SaveTheme(ctx, core.ThemeDark))
	require.NoError(t, s.Close())

	reopened := setupTestStore(t, sqlite.Config{Path: path})
	assert.Equal(t, notes, reopened.LoadNotes(ctx))
	assert.Equal(t, []string{"Work", "Ideas"}, reopened.LoadTags(ctx))
	assert.Equal(t, core.ThemeDark, reopened.LoadTheme(ctx))
}

func TestStore_EmptyList(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, sqlite.Config{})

	require.NoError(t, s.SaveNotes(ctx, nil))
	notes := s.LoadNotes(ctx)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestStore_CorruptRowFallsBack(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), sqlite.DefaultFileName)
	s := setupTestStore(t, sqlite.Config{
		Path:   path,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec(`INSERT INTO slots (key, value) VALUES ('notes', '{oops'), ('tags', '42')`)
	require.NoError(t, err)

	assert.Equal(t, core.DefaultNotes(), s.LoadNotes(ctx))
	assert.Equal(t, core.DefaultTags(), s.LoadTags(ctx))
	assert.Contains(t, logs.String(), "corrupt slot")
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), sqlite.DefaultFileName)
	writer := setupTestStore(t, sqlite.Config{Path: path})
	require.NoError(t, writer.SaveTags(ctx, []string{"Kept"}))
	require.NoError(t, writer.Close())

	s := setupTestStore(t, sqlite.Config{Path: path, ReadOnly: true})
	assert.Equal(t, []string{"Kept"}, s.LoadTags(ctx))
	assert.ErrorIs(t, s.SaveTags(ctx, []string{"x"}), core.ErrReadOnly)
	assert.ErrorIs(t, s.SaveTheme(ctx, core.ThemeDark), core.ErrReadOnly)
}

func TestStore_UninitializedUsesDefaults(t *testing.T) {
	ctx := context.Background()
	s := sqlite.NewStore(sqlite.Config{Path: filepath.Join(t.TempDir(), "x.db")})

	assert.Equal(t, core.DefaultTags(), s.LoadTags(ctx))
	assert.Error(t, s.SaveTags(ctx, nil))
	assert.NoError(t, s.Close())
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, sqlite.Config{})

	st := s.State().(sqlite.StoreState)
	assert.True(t, st.Open)
	assert.Nil(t, st.LastSave)

	require.NoError(t, s.SaveTags(ctx, nil))
	assert.NotNil(t, s.State().(sqlite.StoreState).LastSave)
	assert.Equal(t, "sqlite", s.ComponentType())
}

func TestStore_WithRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), sqlite.DefaultFileName)
	s := setupTestStore(t, sqlite.Config{Path: path})

	repo := core.NewRepository(s)
	repo.Initialize(ctx)
	_, err := repo.Add(ctx, core.Note{Title: "Oat Milk", Tag: "Personal"})
	require.NoError(t, err)
	_, err = repo.Delete(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	again := core.NewRepository(setupTestStore(t, sqlite.Config{Path: path}))
	again.Initialize(ctx)
	require.Equal(t, 3, again.Len())
	assert.Equal(t, "Oat Milk", again.Notes()[2].Title)
	assert.Len(t, again.Search("milk"), 2)
}
