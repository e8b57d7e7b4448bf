package plume

import (
	"log/slog"
	"time"

	"github.com/plumehq/plume/internal/platform"
	"github.com/plumehq/plume/pkg/core"
)

// Version exposes the version of the library.
const Version = "0.2.0"

// --- Types ---

// App is the application registry holding one instance of each domain store.
type App = platform.App

// --- Configuration ---

// Option defines a functional option for configuring the registry.
type Option = platform.Option

// WithLogger sets the logger for persistence and watcher diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage injects a custom durable medium (e.g. blob.NewMemory() for
// session-only operation or tests).
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithClock overrides the wall clock used for timestamps, overdue
// recomputation, and analytics windows.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithIDGenerator overrides id generation for the note and notebook stores.
func WithIDGenerator(newID func() string) Option {
	return platform.WithIDGenerator(newID)
}

// WithFlushInterval sets how long an unsaved editor draft may sit before
// being flushed to the note store.
func WithFlushInterval(d time.Duration) Option {
	return platform.WithFlushInterval(d)
}

// --- Factory ---

// Open builds the application registry rooted at the given data directory.
// Stores rehydrate synchronously before Open returns.
func Open(path string, opts ...Option) (*App, error) {
	return platform.Open(path, opts...)
}
