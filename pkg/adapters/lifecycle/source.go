// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quicknotes/pkg/core"
)

type slotSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a store event channel. core.Event already satisfies
// lifecycle.Event through its String method.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &slotSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *slotSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input closes, then closes
// the output channel.
func (s *slotSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
