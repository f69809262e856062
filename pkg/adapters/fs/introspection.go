package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	SystemDir     string     `json:"system_dir"`
	Versioned     bool       `json:"versioned"`
	ReadOnly      bool       `json:"read_only"`
	Strict        bool       `json:"strict"`
	WatcherActive bool       `json:"watcher_active"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:          s.Path,
		Format:        s.serializer.Ext(),
		SystemDir:     s.config.SystemDir,
		Versioned:     s.config.Versioned,
		ReadOnly:      s.config.ReadOnly,
		Strict:        s.config.Strict,
		WatcherActive: s.watcherActive,
		LastSave:      s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
