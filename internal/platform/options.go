package platform

import (
	"log/slog"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for opening a store.
type options struct {
	store        core.Store
	logger       *slog.Logger
	adapter      string
	format       string
	versioning   *bool
	autoInit     bool
	mustExist    bool
	forceTemp    bool
	readOnly     bool
	strict       bool
	devSafety    bool
	systemDir    string
	eventBuffer  int
	errorHandler func(error)
	idGenerator  func() string
}

// Option defines a functional option for configuring QuickNotes.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		autoInit:  true,
		devSafety: true,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger shared by the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom store (e.g. a mock). Adapter options are then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the on-disk format of the fs adapter ("json" or "yaml").
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithVersioning enables or disables git versioning of the fs adapter.
// When not set, versioning is on if the data directory is already a git repository.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = &enabled
	}
}

// WithAutoInit controls whether a missing data directory (and, when
// versioned, the git repository) is created. Defaults to true.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist fails initialization when the data directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Saves return core.ErrReadOnly.
// 2. Initialization (mkdir, git init, schema) is skipped.
// 3. The dev sandbox is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithStrict rejects unknown fields when decoding fs slots.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true), the data directory is re-rooted into a temp directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithSystemDir sets the hidden bookkeeping directory name. Defaults to ".quicknotes".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithEventBuffer sets the buffer size of watch channels. Zero means default.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithIDGenerator overrides how note IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.idGenerator = fn
	}
}
