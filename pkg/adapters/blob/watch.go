package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/plumehq/plume/pkg/core"
)

// debounceWindow coalesces the burst of filesystem events a single atomic
// write produces (create temp, write, rename) into one logical event per key.
const debounceWindow = 50 * time.Millisecond

// Watch observes the data directory for changes made by external writers and
// emits one event per changed key. The pattern is a doublestar glob matched
// against storage keys (e.g. "*-storage" or "**").
//
// Echoes of this adapter's own Set calls are suppressed by content checksum,
// so a process watching its own directory only hears about foreign writes.
// The channel is closed when ctx is done.
func (d *Dir) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if _, err := doublestar.Match(pattern, "probe"); err != nil {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(d.path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", d.path, err)
	}

	events := make(chan core.Event, 16)
	go d.watchLoop(ctx, watcher, pattern, events)
	return events, nil
}

func (d *Dir) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Event) {
	defer close(events)
	defer watcher.Close()

	deb := newDebouncer(debounceWindow)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			key, etype, ok := d.classify(ev)
			if !ok {
				continue
			}
			if match, _ := doublestar.Match(pattern, key); !match {
				continue
			}
			deb.add(key, func() {
				// Recover in case the channel was closed while this timer
				// was in flight (watcher shutting down).
				defer func() { _ = recover() }()
				select {
				case events <- core.Event{Type: etype, Key: key, Timestamp: time.Now().Unix()}:
				case <-ctx.Done():
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.logger.Error("fsnotify error", "error", err)
		}
	}
}

// classify maps a filesystem event to a storage key and event type. Temp
// files, foreign extensions, and echoes of local writes are dropped.
func (d *Dir) classify(ev fsnotify.Event) (key string, etype core.EventType, ok bool) {
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, blobExt) || strings.HasPrefix(name, tempFilePrefix) {
		return "", "", false
	}
	key = strings.TrimSuffix(name, blobExt)

	switch {
	case ev.Has(fsnotify.Create):
		etype = core.EventCreate
	case ev.Has(fsnotify.Write):
		etype = core.EventModify
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		return key, core.EventDelete, true
	default:
		return "", "", false
	}

	data, err := os.ReadFile(ev.Name)
	if err != nil {
		// File may have vanished between event and read; let a later event
		// report the final state.
		return "", "", false
	}
	if d.isSelfWrite(key, data) {
		return "", "", false
	}
	return key, etype, true
}

// debouncer delays delivery per key, replacing the pending fire when a newer
// event for the same key arrives.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(key string, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, fire)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
