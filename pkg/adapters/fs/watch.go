package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/quicknotes/pkg/core"
)

const (
	defaultEventBuffer = 16
	debounceWindow     = 50 * time.Millisecond
)

// Watch reports changes to slot files made by any writer, this process
// included. pattern is a doublestar glob over slot names ("*", "notes",
// "{notes,tags}"). The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The directory is watched rather than the files: atomic writes replace
	// the file, which would drop a per-file watch.
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	size := s.config.EventBuffer
	if size <= 0 {
		size = defaultEventBuffer
	}
	events := make(chan core.Event, size)

	w := &watchWorker{
		store:     s,
		pattern:   pattern,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(debounceWindow),
		known:     make(map[core.Slot]bool),
		done:      make(chan struct{}),
	}
	for _, slot := range []core.Slot{core.SlotNotes, core.SlotTags, core.SlotSettings} {
		if _, err := os.Stat(s.SlotPath(slot)); err == nil {
			w.known[slot] = true
		}
	}

	s.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.handleError(fmt.Errorf("watcher: %w", err))
	}))

	return events, nil
}

type watchWorker struct {
	store     *Store
	pattern   string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
	known     map[core.Slot]bool

	// done is closed when the loop exits; pending deliveries give up on it.
	done chan struct{}
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			// Stack traces only at debug level.
			if w.store.config.Logger != nil && w.store.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.store.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
	}()
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Release blocked deliveries, then wait for timers before the channel closes.
	close(w.done)
	w.debouncer.stopAndWait()
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.handleError(wErr)
		}
	}
}

// process filters, maps and debounces one filesystem event.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) {
	w.store.debug("event received", "name", event.Name, "op", event.Op.String())

	slot, ok := w.store.slotOf(event.Name)
	if !ok {
		return
	}
	if match, _ := doublestar.Match(w.pattern, string(slot)); !match {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		eType = core.EventDelete
		w.known[slot] = false
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		eType = core.EventModify
		if !w.known[slot] {
			eType = core.EventCreate
			w.known[slot] = true
		}
	default:
		return
	}

	e := core.Event{Type: eType, Slot: slot, Timestamp: time.Now().Unix()}
	w.debouncer.add(e, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		case <-w.done:
		}
	})
}

// slotOf maps a file path to its slot, ignoring temp files and foreign files.
func (s *Store) slotOf(path string) (core.Slot, bool) {
	if filepath.Dir(path) != filepath.Clean(s.Path) {
		return "", false
	}
	name := filepath.Base(path)
	if strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	for _, slot := range []core.Slot{core.SlotNotes, core.SlotTags, core.SlotSettings} {
		if name == s.slotFile(slot) {
			return slot, true
		}
	}
	return "", false
}

func (s *Store) handleError(err error) {
	if s.config.Logger != nil {
		s.config.Logger.Error("watcher error", "error", err)
	}
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

// debouncer coalesces bursts per slot: only the last event inside the window
// is delivered. A rename-over produces several fsnotify events for one save.
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	timers  map[core.Slot]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[core.Slot]*time.Timer),
	}
}

func (d *debouncer) add(e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[e.Slot]; ok && t.Stop() {
		// The stopped timer never ran; release its slot in the group.
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timers[e.Slot] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			deliver(e)
		}
	})
}

// stopAndWait cancels pending deliveries and waits for running ones.
// Running deliveries must not block indefinitely.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for slot, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, slot)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
