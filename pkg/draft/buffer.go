// Package draft buffers long-running editor input so the store sees discrete,
// complete update calls instead of one write per keystroke. The buffer is a
// debounce/batch policy owned by the view, not a store concern.
package draft

import (
	"sync"
	"time"
)

// Buffer accumulates content changes and flushes the latest value through a
// single flush function. The contract:
//
//   - at most one flush is in flight at a time
//   - last value wins; intermediate values are never flushed
//   - Save flushes immediately and cancels any pending timer flush; before
//     the first Update there is nothing recorded and Save is a no-op
//   - Close cancels without flushing, is idempotent, and never panics;
//     nothing is ever flushed after Close
//
// Cancellation on view unmount goes through Close so a dead view cannot write
// into the store (and in particular cannot resurrect a deleted entity; the
// stores' missing-id no-op policy covers the race the other way around).
type Buffer struct {
	mu       sync.Mutex
	flushMu  sync.Mutex
	interval time.Duration
	flush    func(content string)
	timer    *time.Timer
	last     string
	updated  bool
	dirty    bool
	closed   bool
}

// New creates a buffer flushing through fn. The interval is how long an
// unsaved change may sit before the timer flushes it.
func New(interval time.Duration, fn func(content string)) *Buffer {
	return &Buffer{interval: interval, flush: fn}
}

// Update records the latest editor content. The first unsaved change arms the
// flush timer; subsequent changes before it fires just replace the value.
func (b *Buffer) Update(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last = content
	b.updated = true
	b.dirty = true
	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.timerFired)
	}
}

// Save flushes the current value immediately and cancels any pending
// timer-triggered flush. Once content has been recorded, an explicit save
// always flushes, dirty or not. Saving before the first Update is a no-op:
// the buffer holds no content yet and must not write the zero value over the
// entity it is bound to.
func (b *Buffer) Save() {
	b.mu.Lock()
	if b.closed || !b.updated {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	b.mu.Unlock()

	b.flushNow(true)
}

// Close cancels any pending flush without flushing. Safe to call repeatedly
// and concurrently with a firing timer.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.stopTimerLocked()
}

func (b *Buffer) timerFired() {
	b.mu.Lock()
	b.timer = nil
	b.mu.Unlock()

	b.flushNow(false)
}

// flushNow performs the actual flush. flushMu guarantees at most one flush in
// flight; the closed/dirty re-check under mu handles a timer that fired just
// before Close or Save won the race.
func (b *Buffer) flushNow(force bool) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if b.closed || (!force && !b.dirty) {
		b.mu.Unlock()
		return
	}
	content := b.last
	b.dirty = false
	b.mu.Unlock()

	b.flush(content)
}

func (b *Buffer) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
