package core

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Notes       int    `json:"notes"`
	Displayed   int    `json:"displayed"`
	Tags        int    `json:"tags"`
	Query       string `json:"query,omitempty"`
	PendingUndo bool   `json:"pending_undo"`
	StoreType   string `json:"store_type"`
	Store       any    `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	storeType := "unknown"
	var storeState any
	if r.store != nil {
		storeType = "store"
		// Prefer the store's own name when it reports one.
		if comp, ok := r.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
		if in, ok := r.store.(introspection.Introspectable); ok {
			storeState = in.State()
		}
	}

	return RepositoryState{
		Notes:       len(r.all),
		Displayed:   len(r.displayed),
		Tags:        len(r.tags),
		Query:       r.query,
		PendingUndo: r.pending != nil,
		StoreType:   storeType,
		Store:       storeState,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
