package core

import "context"

// Store defines the contract for durable note and tag storage.
// Implementations own the serialized representation and carry no business
// logic. Loads never fail: missing or unreadable data yields the defaults.
type Store interface {
	// Initialize ensures the underlying medium is ready (directories, schema).
	Initialize(ctx context.Context) error

	// LoadNotes returns the saved notes, or DefaultNotes when nothing usable is stored.
	LoadNotes(ctx context.Context) []Note
	// SaveNotes atomically replaces the stored notes.
	SaveNotes(ctx context.Context, notes []Note) error

	// LoadTags returns the saved tags, or DefaultTags when nothing usable is stored.
	LoadTags(ctx context.Context) []string
	// SaveTags atomically replaces the stored tags.
	SaveTags(ctx context.Context, tags []string) error
}

// Preferences is implemented by stores that also keep the theme setting.
type Preferences interface {
	LoadTheme(ctx context.Context) Theme
	SaveTheme(ctx context.Context, theme Theme) error
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	// Watch emits an Event whenever a slot whose name matches pattern changes.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
