package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/adapters/sqlite"
	"github.com/aretw0/quicknotes/pkg/core"
)

// OpenStore builds and initializes the store selected by opts.
// The uri is the data directory for both adapters.
func OpenStore(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	o := apply(opts)

	if o.store != nil {
		if err := o.store.Initialize(ctx); err != nil {
			return nil, err
		}
		return o.store, nil
	}

	path := resolvePath(uri, o)

	var store core.Store
	switch o.adapter {
	case AdapterFS, "":
		store = newFS(path, o)
	case AdapterSQLite:
		store = sqlite.NewStore(sqlite.Config{
			Path:     filepath.Join(path, sqlite.DefaultFileName),
			ReadOnly: o.readOnly,
			Logger:   o.logger,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox to uri.
func resolvePath(uri string, o *options) string {
	// Read-only access is inherently safe.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(uri, useTemp)

	if o.logger != nil && IsDevRun() {
		switch {
		case o.readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != uri {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
	}
	return resolved
}

// newFS builds the filesystem store for path.
func newFS(path string, o *options) *fs.Store {
	versioned := false
	if o.versioning != nil {
		versioned = *o.versioning
	} else if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		// An existing git repository keeps being versioned.
		versioned = true
		if o.logger != nil {
			o.logger.Debug("auto-detected versioned data directory", "path", path)
		}
	}

	return fs.NewStore(fs.Config{
		Path:         path,
		Format:       o.format,
		Strict:       o.strict,
		AutoInit:     o.autoInit,
		MustExist:    o.mustExist || !o.autoInit,
		Versioned:    versioned,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		SystemDir:    o.systemDir,
		EventBuffer:  o.eventBuffer,
		ErrorHandler: o.errorHandler,
	})
}
