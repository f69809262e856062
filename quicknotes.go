package quicknotes

import (
	"context"
	"log/slog"

	"github.com/aretw0/quicknotes/internal/platform"
	"github.com/aretw0/quicknotes/pkg/core"
)

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Repository is a public alias for the note repository.
type Repository = core.Repository

// Store is a public alias for the storage port.
type Store = core.Store

// --- Configuration ---

// Option defines a functional option for configuring QuickNotes.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the store and repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects the fs file format ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithVersioning enables or disables git history for the fs adapter.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit creates the data directory when missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist requires the data directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithReadOnly opens the store read-only.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrict rejects unknown fields in stored files.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSystemDir sets the hidden bookkeeping directory name.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer size of watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithIDGenerator overrides how note IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return platform.WithIDGenerator(fn)
}

// --- Factory ---

// New opens the data directory and returns a loaded Repository.
func New(ctx context.Context, dir string, opts ...Option) (*core.Repository, error) {
	return platform.New(ctx, dir, opts...)
}

// OpenStore opens the data directory and returns the bare Store.
func OpenStore(ctx context.Context, dir string, opts ...Option) (core.Store, error) {
	return platform.OpenStore(ctx, dir, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath applies the dev sandbox rules to a data directory.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
