// Package store implements the generic persistent store engine: an in-memory
// state container with selective change notification and best-effort durable
// snapshot synchronization.
//
// The engine holds one typed state value per instance. All writes funnel
// through SetState so that every mutation triggers a persistence attempt and
// notifies exactly the subscribers whose selected slice changed. In-memory
// state is the source of truth for the running session; the durable medium is
// a crash/reload recovery aid and its failures never surface to callers.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/plumehq/plume/pkg/core"
)

// Config wires a store to its durable medium.
type Config struct {
	// Key is the namespaced storage key the full state snapshot is
	// serialized under.
	Key string

	// Storage is the durable medium. Nil disables persistence entirely
	// (session-only operation).
	Storage core.Storage

	// Logger receives persistence diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Store holds a typed state value, notifies subscribers of slice-level
// changes, and mirrors every state replacement to durable storage.
//
// Operations are serialized by an internal mutex: each SetState completes its
// mutation, persistence attempt, and notification snapshot before the next
// write is admitted, matching the one-event-at-a-time model the UI relies on.
type Store[S any] struct {
	mu      sync.Mutex
	key     string
	storage core.Storage
	logger  *slog.Logger
	state   S
	subs    map[int]*subscription[S]
	nextSub int
}

type subscription[S any] struct {
	selector func(S) any
	callback func(any)
	last     any
}

// New constructs a store and rehydrates it synchronously: by the time New
// returns, GetState reflects the stored snapshot (if one exists and parses)
// or defaultState. There is no window where callers observe the default while
// a load is still pending.
//
// A malformed stored blob is logged and discarded, never fatal.
func New[S any](cfg Config, defaultState S) *Store[S] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store[S]{
		key:     cfg.Key,
		storage: cfg.Storage,
		logger:  logger,
		state:   defaultState,
		subs:    make(map[int]*subscription[S]),
	}

	if loaded, ok := s.load(); ok {
		s.state = loaded
	}
	return s
}

// Key returns the storage key this store snapshots under.
func (s *Store[S]) Key() string {
	return s.key
}

// GetState returns the current in-memory snapshot. It never blocks on the
// durable medium. The returned value shares slice backing with the store;
// callers must treat it as read-only and mutate only through SetState.
func (s *Store[S]) GetState() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState replaces the state via the pure reducer, then persists the full
// snapshot and notifies subscribers whose selected slice changed.
//
// Persistence is best-effort: a failing medium is logged and the in-memory
// mutation stands (degrade-to-session-only). Subscribers still fire.
func (s *Store[S]) SetState(reduce func(S) S) {
	s.mu.Lock()
	s.state = reduce(s.state)
	s.persistLocked()
	pending := s.collectLocked()
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
}

// Subscribe registers interest in a derived slice of state. The callback
// fires only when selector(newState) is not structurally equal to the value
// it produced for the previous state. The returned function removes the
// subscription; both add and remove are O(1).
func (s *Store[S]) Subscribe(selector func(S) any, callback func(any)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscription[S]{
		selector: selector,
		callback: callback,
		last:     selector(s.state),
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Rehydrate re-reads the durable snapshot and replaces in-memory state,
// notifying subscribers of changed slices. It is used when an external writer
// (another process on the same data directory) is detected; an unreadable or
// malformed blob leaves the current state in place.
func (s *Store[S]) Rehydrate() {
	s.mu.Lock()
	loaded, ok := s.load()
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = loaded
	pending := s.collectLocked()
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
}

// Observe is the typed companion of Subscribe for callers that want a
// concrete slice type instead of any.
func Observe[S, T any](s *Store[S], selector func(S) T, callback func(T)) (unsubscribe func()) {
	return s.Subscribe(
		func(state S) any { return selector(state) },
		func(v any) { callback(v.(T)) },
	)
}

// collectLocked snapshots the callbacks whose selector output changed.
// Callbacks are invoked after the store mutex is released so a subscriber may
// read back from the store without deadlocking.
func (s *Store[S]) collectLocked() []func() {
	var pending []func()
	for _, sub := range s.subs {
		next := sub.selector(s.state)
		if reflect.DeepEqual(sub.last, next) {
			continue
		}
		sub.last = next
		cb := sub.callback
		pending = append(pending, func() { cb(next) })
	}
	return pending
}

func (s *Store[S]) persistLocked() {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("state serialization failed", "key", s.key, "error", err)
		return
	}

	if err := s.storage.Set(s.key, string(data)); err != nil {
		s.logger.Warn("snapshot write failed, continuing in-memory", "key", s.key, "error", err)
	}
}

// load reads and parses the stored snapshot. ok is false when the key is
// absent, the medium is unreadable, or the blob is malformed.
func (s *Store[S]) load() (loaded S, ok bool) {
	if s.storage == nil {
		return loaded, false
	}

	raw, err := s.storage.Get(s.key)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			s.logger.Warn("snapshot read failed, using defaults", "key", s.key, "error", err)
		}
		return loaded, false
	}

	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("discarding malformed snapshot", "key", s.key, "error", err)
		return loaded, false
	}
	return loaded, true
}
