// Package tasks implements the task store and the overdue recomputation pass.
package tasks

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/store"
)

// StorageKey is the durable snapshot key for tasks.
const StorageKey = "tasks-storage"

// State is the full snapshot owned by the store.
type State struct {
	Tasks []core.Task `json:"tasks"`
}

// Config wires the store to its collaborators; see notes.Config.
type Config struct {
	Storage core.Storage
	Logger  *slog.Logger
	Clock   func() time.Time
}

// Store owns the tasks collection.
//
// Unlike the note and notebook stores, task ids are supplied by the caller in
// AddTask. The asymmetry is deliberate contract, inherited from the call
// sites this store serves; see DESIGN.md.
type Store struct {
	engine *store.Store[State]
	now    func() time.Time
}

// New constructs the store, rehydrating synchronously from storage.
func New(cfg Config) *Store {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	engine := store.New(store.Config{
		Key:     StorageKey,
		Storage: cfg.Storage,
		Logger:  cfg.Logger,
	}, State{Tasks: []core.Task{}})

	return &Store{engine: engine, now: cfg.Clock}
}

// State returns the current snapshot. Treat it as read-only.
func (s *Store) State() State {
	return s.engine.GetState()
}

// Tasks returns the current tasks slice in insertion order.
func (s *Store) Tasks() []core.Task {
	return s.engine.GetState().Tasks
}

// Task looks up a single task by id.
func (s *Store) Task(id string) (core.Task, bool) {
	for _, t := range s.engine.GetState().Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return core.Task{}, false
}

// Subscribe registers a selector-scoped observer; see store.Store.Subscribe.
func (s *Store) Subscribe(selector func(State) any, callback func(any)) (unsubscribe func()) {
	return s.engine.Subscribe(selector, callback)
}

// Rehydrate re-reads the durable snapshot, replacing in-memory state.
func (s *Store) Rehydrate() {
	s.engine.Rehydrate()
}

// AddTask appends a caller-formed task. The id must be supplied and unique
// within the collection. Zero timestamps are filled in, an empty status
// defaults to pending, an empty priority to medium.
func (s *Store) AddTask(t core.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return &core.ValidationError{Field: "task id", Reason: "must be supplied by the caller"}
	}
	if _, exists := s.Task(t.ID); exists {
		return &core.ValidationError{Field: "task id", Reason: "already in use"}
	}

	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	if t.Status == "" {
		t.Status = core.StatusPending
	}
	if t.Priority == "" {
		t.Priority = core.PriorityMedium
	}

	s.engine.SetState(func(st State) State {
		st.Tasks = append(slices.Clone(st.Tasks), t)
		return st
	})
	return nil
}

// Update carries partial task fields; nil means unchanged. ClearDueDate
// distinguishes "set due date to none" from "leave it alone".
type Update struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *core.Priority
	Status       *core.TaskStatus
}

// UpdateTask merges the update into the matching task and refreshes
// UpdatedAt. A missing id is a silent no-op. The explicit pending/completed
// toggle goes through Status here; the overdue status is derived, see
// RecomputeOverdue.
func (s *Store) UpdateTask(id string, upd Update) {
	now := s.now()
	s.engine.SetState(func(st State) State {
		i := slices.IndexFunc(st.Tasks, func(t core.Task) bool { return t.ID == id })
		if i < 0 {
			return st
		}

		tasks := slices.Clone(st.Tasks)
		t := tasks[i]
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.ClearDueDate {
			t.DueDate = nil
		} else if upd.DueDate != nil {
			due := *upd.DueDate
			t.DueDate = &due
		}
		if upd.Priority != nil {
			t.Priority = *upd.Priority
		}
		if upd.Status != nil {
			t.Status = *upd.Status
		}
		t.UpdatedAt = now
		tasks[i] = t
		st.Tasks = tasks
		return st
	})
}

// DeleteTask removes a task. Deleting a nonexistent id is a no-op.
func (s *Store) DeleteTask(id string) {
	s.engine.SetState(func(st State) State {
		st.Tasks = slices.DeleteFunc(slices.Clone(st.Tasks), func(t core.Task) bool {
			return t.ID == id
		})
		return st
	})
}

// RecomputeOverdue transitions pending tasks whose due date lies before the
// start of the current calendar day to overdue, refreshing their UpdatedAt.
// It returns the number of tasks transitioned.
//
// Overdue-ness is a function of wall-clock time, not of any mutation event,
// so this pass is never triggered implicitly: invoke it at session start or
// on a timer. Stale status between invocations is acceptable because it is
// always re-derivable. The pass is idempotent; completed tasks are never
// touched.
func (s *Store) RecomputeOverdue() int {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var transitioned int
	s.engine.SetState(func(st State) State {
		tasks := slices.Clone(st.Tasks)
		changed := false
		for i, t := range tasks {
			if t.Status != core.StatusPending || t.DueDate == nil {
				continue
			}
			due := t.DueDate.In(now.Location())
			dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
			if !dueDay.Before(today) {
				continue
			}
			t.Status = core.StatusOverdue
			t.UpdatedAt = now
			tasks[i] = t
			changed = true
			transitioned++
		}
		if !changed {
			return st
		}
		st.Tasks = tasks
		return st
	})
	return transitioned
}
