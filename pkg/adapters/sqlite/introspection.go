package sqlite

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string     `json:"path"`
	Open     bool       `json:"open"`
	ReadOnly bool       `json:"read_only"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:     s.config.Path,
		Open:     s.db != nil,
		ReadOnly: s.config.ReadOnly,
		LastSave: s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
