package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// Repository is the authoritative in-memory holder of notes and tags for one
// session. Every mutation is applied in memory first and then persisted
// through the Store; a failed write is reported but never rolled back.
//
// Repository is not safe for concurrent use. Callers serialize access, the
// same way a UI thread serializes its event handlers.
type Repository struct {
	store  Store
	logger *slog.Logger
	newID  func() string

	all       []Note
	displayed []Note
	query     string
	tags      []string

	pending *pendingUndo
}

const maxIDAttempts = 16

// pendingUndo remembers the last removed note and where it was.
type pendingUndo struct {
	note     Note
	position int
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRepositoryLogger sets the logger used for persistence diagnostics.
func WithRepositoryLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithIDGenerator overrides how new note IDs are minted.
func WithIDGenerator(fn func() string) RepositoryOption {
	return func(r *Repository) {
		r.newID = fn
	}
}

// NewRepository creates an empty Repository backed by store.
// Call Initialize to load the persisted state.
func NewRepository(store Store, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Initialize replaces the in-memory state with what the store holds and
// resets the displayed list to the unfiltered collection.
// It is called at session start and whenever the caller wants to pick up
// changes written by someone else.
func (r *Repository) Initialize(ctx context.Context) {
	notes := r.store.LoadNotes(ctx)
	r.all = make([]Note, 0, len(notes))
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.ID == "" || seen[n.ID] {
			n.ID = r.uniqueID(seen)
		}
		seen[n.ID] = true
		r.all = append(r.all, n)
	}
	r.tags = slices.Clone(r.store.LoadTags(ctx))
	r.query = ""
	r.pending = nil
	r.refilter()
}

// Notes returns a copy of every note in insertion order.
func (r *Repository) Notes() []Note {
	return slices.Clone(r.all)
}

// Displayed returns a copy of the notes matching the active query.
func (r *Repository) Displayed() []Note {
	return slices.Clone(r.displayed)
}

// Query returns the active search query.
func (r *Repository) Query() string {
	return r.query
}

// Len returns the number of notes.
func (r *Repository) Len() int {
	return len(r.all)
}

// Get returns the note with the given ID.
func (r *Repository) Get(id string) (Note, error) {
	i := r.IndexOf(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.all[i], nil
}

// IndexOf returns the position of the note with the given ID, or -1.
func (r *Repository) IndexOf(id string) int {
	return slices.IndexFunc(r.all, func(n Note) bool { return n.ID == id })
}

// Add appends a note and persists the collection.
// It returns the new note's position. A blank ID, or one already in use, is
// replaced with a fresh one.
func (r *Repository) Add(ctx context.Context, note Note) (int, error) {
	if note.ID == "" || r.IndexOf(note.ID) >= 0 {
		note.ID = r.uniqueID(nil)
	}
	r.pending = nil
	r.all = append(r.all, note)
	r.refilter()
	return len(r.all) - 1, r.persistNotes(ctx)
}

// Update replaces the note at position. The replacement keeps the ID of the
// note it replaces so the displayed list follows it.
func (r *Repository) Update(ctx context.Context, position int, note Note) error {
	if err := r.checkPosition(position); err != nil {
		return err
	}
	note.ID = r.all[position].ID
	r.pending = nil
	r.all[position] = note
	r.refilter()
	return r.persistNotes(ctx)
}

// UpdateByID replaces the note with the given ID.
func (r *Repository) UpdateByID(ctx context.Context, id string, note Note) error {
	i := r.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.Update(ctx, i, note)
}

// Delete removes the note at position and persists the collection.
// The removed note becomes the single pending undo, replacing any earlier one.
func (r *Repository) Delete(ctx context.Context, position int) (Note, error) {
	if err := r.checkPosition(position); err != nil {
		return Note{}, err
	}
	removed := r.all[position]
	r.all = slices.Delete(r.all, position, position+1)
	r.pending = &pendingUndo{note: removed, position: position}
	r.refilter()
	return removed, r.persistNotes(ctx)
}

// DeleteByID removes the note with the given ID.
func (r *Repository) DeleteByID(ctx context.Context, id string) (Note, error) {
	i := r.IndexOf(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.Delete(ctx, i)
}

// CanUndo reports whether a deleted note can still be restored.
func (r *Repository) CanUndo() bool {
	return r.pending != nil
}

// Undo re-inserts the most recently deleted note at its original position.
// It is only valid until the next mutation.
func (r *Repository) Undo(ctx context.Context) (int, error) {
	if r.pending == nil {
		return -1, ErrNothingToUndo
	}
	p := r.pending
	r.pending = nil

	pos := min(p.position, len(r.all))
	r.all = slices.Insert(r.all, pos, p.note)
	r.refilter()
	return pos, r.persistNotes(ctx)
}

// Search recomputes the displayed list from all notes and returns it.
// Matching is a case-insensitive substring test against title, content and
// tag. An empty query restores the full list. Search never touches storage.
func (r *Repository) Search(query string) []Note {
	r.query = query
	r.refilter()
	return r.Displayed()
}

// ByTag returns the notes whose tag matches a doublestar glob pattern,
// e.g. "Work" or "Proj*". It does not change the displayed list.
func (r *Repository) ByTag(pattern string) ([]Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid tag pattern %q", pattern)
	}
	var out []Note
	for _, n := range r.all {
		ok, err := doublestar.Match(pattern, n.Tag)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Tags returns a copy of the in-memory tag collection.
func (r *Repository) Tags() []string {
	return slices.Clone(r.tags)
}

// LoadTags reloads the tag collection from the store and returns it.
func (r *Repository) LoadTags(ctx context.Context) []string {
	r.tags = slices.Clone(r.store.LoadTags(ctx))
	return r.Tags()
}

// AddTag appends a tag name and persists the tag collection.
// Names are compared exactly; case matters. On a Repository that was never
// initialized the stored tags are loaded first.
func (r *Repository) AddTag(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyTag
	}
	if r.tags == nil {
		r.tags = slices.Clone(r.store.LoadTags(ctx))
	}
	if slices.Contains(r.tags, name) {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, name)
	}
	r.pending = nil
	r.tags = append(r.tags, name)
	if err := r.store.SaveTags(ctx, r.Tags()); err != nil {
		r.logger.Error("failed to persist tags", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Theme returns the persisted theme, if the store keeps preferences.
func (r *Repository) Theme(ctx context.Context) (Theme, error) {
	p, ok := r.store.(Preferences)
	if !ok {
		return "", ErrUnsupported
	}
	return p.LoadTheme(ctx), nil
}

// SetTheme persists the theme preference.
func (r *Repository) SetTheme(ctx context.Context, theme Theme) error {
	p, ok := r.store.(Preferences)
	if !ok {
		return ErrUnsupported
	}
	if err := p.SaveTheme(ctx, theme); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Watch observes external changes to the store if supported.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := r.store.(Watchable)
	if !ok {
		return nil, ErrUnsupported
	}
	return w.Watch(ctx, pattern)
}

// Close releases the store if it holds resources.
func (r *Repository) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// uniqueID mints an ID not present in seen or in the current notes. A
// generator that keeps colliding is abandoned for a random UUID.
func (r *Repository) uniqueID(seen map[string]bool) string {
	for range maxIDAttempts {
		id := r.newID()
		if id != "" && !seen[id] && r.IndexOf(id) < 0 {
			return id
		}
	}
	return uuid.New().String()
}

func (r *Repository) checkPosition(position int) error {
	if position < 0 || position >= len(r.all) {
		return fmt.Errorf("%w: %d (have %d notes)", ErrOutOfRange, position, len(r.all))
	}
	return nil
}

// refilter rebuilds the displayed list as the ordered subsequence of all
// notes matching the active query.
func (r *Repository) refilter() {
	r.displayed = make([]Note, 0, len(r.all))
	for _, n := range r.all {
		if n.Matches(r.query) {
			r.displayed = append(r.displayed, n)
		}
	}
}

func (r *Repository) persistNotes(ctx context.Context) error {
	if err := r.store.SaveNotes(ctx, r.Notes()); err != nil {
		r.logger.Error("failed to persist notes", "error", err, "count", len(r.all))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
