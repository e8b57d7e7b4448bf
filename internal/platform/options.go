package platform

import (
	"log/slog"
	"time"

	"github.com/plumehq/plume/pkg/core"
)

// defaultFlushInterval is how long an unsaved editor draft may sit before the
// buffer flushes it to the note store.
const defaultFlushInterval = 3 * time.Minute

// options holds the internal configuration for the application registry.
type options struct {
	storage       core.Storage
	logger        *slog.Logger
	clock         func() time.Time
	newID         func() string
	flushInterval time.Duration
}

// Option defines a functional option for configuring the registry.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		flushInterval: defaultFlushInterval,
	}
}

// WithLogger sets the logger for persistence and watcher diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a custom durable medium, skipping the default
// directory-backed adapter. Pass a memory adapter for session-only operation.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithClock overrides the wall clock. Tests use this to pin timestamps and to
// drive the overdue recomputation deterministically.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator overrides id generation for the stores that own it (notes,
// notebooks). Task ids remain caller-supplied.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithFlushInterval sets the editor draft flush interval.
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		o.flushInterval = d
	}
}
