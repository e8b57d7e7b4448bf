package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plumehq/plume/pkg/adapters/blob"
	"github.com/plumehq/plume/pkg/analytics"
	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/draft"
	"github.com/plumehq/plume/pkg/notebooks"
	"github.com/plumehq/plume/pkg/notes"
	"github.com/plumehq/plume/pkg/tasks"
)

// App is the application registry: one instance of each domain store sharing
// a durable medium, constructed once at startup and injected into consumers.
// It replaces the hidden-global-singleton pattern while keeping "one store,
// shared across the whole UI tree" semantics.
type App struct {
	Notes     *notes.Store
	Tasks     *tasks.Store
	Notebooks *notebooks.Store

	storage       core.Storage
	logger        *slog.Logger
	clock         func() time.Time
	flushInterval time.Duration
}

// Open builds the registry. Each store rehydrates synchronously from its
// storage key before Open returns, so there is no window where readers see
// empty defaults while a load is pending. Path is the data directory for the
// default adapter and is ignored when WithStorage injects one.
func Open(path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	storage := o.storage
	if storage == nil {
		dir, err := blob.NewDir(path, logger)
		if err != nil {
			return nil, err
		}
		storage = dir
	}

	clock := o.clock
	if clock == nil {
		clock = time.Now
	}

	return &App{
		Notes: notes.New(notes.Config{
			Storage: storage,
			Logger:  logger,
			Clock:   clock,
			NewID:   o.newID,
		}),
		Tasks: tasks.New(tasks.Config{
			Storage: storage,
			Logger:  logger,
			Clock:   clock,
		}),
		Notebooks: notebooks.New(notebooks.Config{
			Storage: storage,
			Logger:  logger,
			Clock:   clock,
			NewID:   o.newID,
		}),
		storage:       storage,
		logger:        logger,
		clock:         clock,
		flushInterval: o.flushInterval,
	}, nil
}

// Stats computes the analytics overview from the current snapshots.
func (a *App) Stats() analytics.Overview {
	return analytics.Compute(a.Notes.Notes(), a.Tasks.Tasks(), a.Notebooks.Notebooks(), a.clock())
}

// NewDraft returns an editor flush buffer bound to one note's content. The
// owning view calls Update on keystrokes, Save on explicit save, and Close on
// unmount. Flushing into a note deleted elsewhere is a harmless no-op.
func (a *App) NewDraft(noteID string) *draft.Buffer {
	return draft.New(a.flushInterval, func(content string) {
		a.Notes.UpdateNote(noteID, notes.NoteUpdate{Content: &content})
	})
}

// WatchExternal rehydrates stores whose durable snapshot is changed by an
// external writer (e.g. a second process on the same data directory). It
// returns an error when the configured storage cannot watch; otherwise it
// runs until ctx is done.
func (a *App) WatchExternal(ctx context.Context) error {
	w, ok := a.storage.(core.Watchable)
	if !ok {
		return fmt.Errorf("storage does not support watching")
	}

	events, err := w.Watch(ctx, "*-storage")
	if err != nil {
		return err
	}

	go func() {
		for ev := range events {
			a.logger.Debug("external change detected", "key", ev.Key, "type", ev.Type)
			switch ev.Key {
			case notes.StorageKey:
				a.Notes.Rehydrate()
			case tasks.StorageKey:
				a.Tasks.Rehydrate()
			case notebooks.StorageKey:
				a.Notebooks.Rehydrate()
			}
		}
	}()
	return nil
}
