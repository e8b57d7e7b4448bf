// Package notes implements the note store: notes plus the tag registry they
// reference, backed by one durable snapshot.
package notes

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/store"
)

const (
	// StorageKey is the durable snapshot key for notes and tags.
	StorageKey = "notes-storage"

	// DefaultTag is the sentinel applied to notes created without a tag.
	DefaultTag = "untagged"

	// FallbackColor is resolved for notes whose tag no longer exists. Tag
	// references are lookup-only, so a dangling name degrades to "no color"
	// instead of failing.
	FallbackColor = "transparent"
)

// protectedTags cannot be removed. This is a policy boundary, not a data
// integrity one, so removal fails loudly instead of no-opping.
var protectedTags = map[string]bool{
	"Personal": true,
	"Favorite": true,
}

func defaultTags() []core.Tag {
	return []core.Tag{
		{Name: "Personal", Color: "#4f8dd9"},
		{Name: "Favorite", Color: "#e8b24b"},
	}
}

// State is the full snapshot owned by the store.
type State struct {
	Notes []core.Note `json:"notes"`
	Tags  []core.Tag  `json:"tags"`
}

// Config wires the store to its collaborators. Zero-value fields fall back to
// sensible defaults (wall clock, random UUIDs, discarded logs, no
// persistence).
type Config struct {
	Storage core.Storage
	Logger  *slog.Logger
	Clock   func() time.Time
	NewID   func() string
}

// Store owns the notes and tags collections. All writes funnel through its
// operations; the presentation layer never mutates entities directly.
//
// Note IDs are generated by the store at creation time.
type Store struct {
	engine *store.Store[State]
	now    func() time.Time
	newID  func() string
}

// New constructs the store, rehydrating synchronously from storage.
func New(cfg Config) *Store {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	engine := store.New(store.Config{
		Key:     StorageKey,
		Storage: cfg.Storage,
		Logger:  cfg.Logger,
	}, State{Notes: []core.Note{}, Tags: defaultTags()})

	return &Store{
		engine: engine,
		now:    cfg.Clock,
		newID:  cfg.NewID,
	}
}

// State returns the current snapshot. Treat it as read-only.
func (s *Store) State() State {
	return s.engine.GetState()
}

// Notes returns the current notes slice in insertion order.
func (s *Store) Notes() []core.Note {
	return s.engine.GetState().Notes
}

// Tags returns the current tag registry.
func (s *Store) Tags() []core.Tag {
	return s.engine.GetState().Tags
}

// Note looks up a single note by id.
func (s *Store) Note(id string) (core.Note, bool) {
	for _, n := range s.engine.GetState().Notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Subscribe registers a selector-scoped observer; see store.Store.Subscribe.
func (s *Store) Subscribe(selector func(State) any, callback func(any)) (unsubscribe func()) {
	return s.engine.Subscribe(selector, callback)
}

// Rehydrate re-reads the durable snapshot, replacing in-memory state.
func (s *Store) Rehydrate() {
	s.engine.Rehydrate()
}

// NewNote carries the caller-supplied fields for AddNote.
type NewNote struct {
	Title   string
	Content string
	Tag     string
}

// AddNote creates a note with a fresh id and timestamps and appends it to the
// collection. An empty tag defaults to the untagged sentinel. Insertion order
// is preserved; callers needing chronological order must sort explicitly.
func (s *Store) AddNote(n NewNote) core.Note {
	now := s.now()
	tag := n.Tag
	if tag == "" {
		tag = DefaultTag
	}

	note := core.Note{
		ID:         s.newID(),
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  now,
		ModifiedAt: now,
		Tag:        tag,
	}

	s.engine.SetState(func(st State) State {
		st.Notes = append(slices.Clone(st.Notes), note)
		return st
	})
	return note
}

// NoteUpdate carries partial note fields; nil means unchanged.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tag     *string
}

// UpdateNote merges the update into the matching note and refreshes
// ModifiedAt. A missing id is a silent no-op: multiple editor surfaces may
// race to update a note that another view already deleted.
func (s *Store) UpdateNote(id string, upd NoteUpdate) {
	now := s.now()
	s.engine.SetState(func(st State) State {
		i := slices.IndexFunc(st.Notes, func(n core.Note) bool { return n.ID == id })
		if i < 0 {
			return st
		}

		notes := slices.Clone(st.Notes)
		n := notes[i]
		if upd.Title != nil {
			n.Title = *upd.Title
		}
		if upd.Content != nil {
			n.Content = *upd.Content
		}
		if upd.Tag != nil {
			n.Tag = *upd.Tag
		}
		n.ModifiedAt = now
		notes[i] = n
		st.Notes = notes
		return st
	})
}

// RemoveNote deletes a note. Removing a nonexistent id is a no-op.
func (s *Store) RemoveNote(id string) {
	s.engine.SetState(func(st State) State {
		st.Notes = slices.DeleteFunc(slices.Clone(st.Notes), func(n core.Note) bool {
			return n.ID == id
		})
		return st
	})
}

// TogglePin flips a note's pinned flag. Pin state is presentation metadata,
// so ModifiedAt is left alone.
func (s *Store) TogglePin(id string) {
	s.engine.SetState(func(st State) State {
		i := slices.IndexFunc(st.Notes, func(n core.Note) bool { return n.ID == id })
		if i < 0 {
			return st
		}
		notes := slices.Clone(st.Notes)
		notes[i].IsPinned = !notes[i].IsPinned
		st.Notes = notes
		return st
	})
}

// AddTag registers a new tag. Names are the tag identity: empty or duplicate
// names are rejected before any mutation. Comparison is exact and
// case-sensitive.
func (s *Store) AddTag(tag core.Tag) error {
	if strings.TrimSpace(tag.Name) == "" {
		return &core.ValidationError{Field: "tag name", Reason: "cannot be empty"}
	}
	if s.tagExists(tag.Name) {
		return &core.ValidationError{Field: "tag name", Reason: fmt.Sprintf("%q already exists", tag.Name)}
	}

	s.engine.SetState(func(st State) State {
		// Re-check under the write path; the store serializes writers.
		if slices.ContainsFunc(st.Tags, func(t core.Tag) bool { return t.Name == tag.Name }) {
			return st
		}
		st.Tags = append(slices.Clone(st.Tags), tag)
		return st
	})
	return nil
}

// TagUpdate carries partial tag fields; nil means unchanged.
type TagUpdate struct {
	Name  *string
	Color *string
	Emoji *string
}

// UpdateTag renames or recolors a tag. Renaming does NOT propagate to notes
// referencing the old name: notes hold the name as a free-floating string and
// their color lookup simply falls back until retagged. A missing name is a
// silent no-op; renaming onto an existing name is rejected to keep the name
// the identity.
func (s *Store) UpdateTag(name string, upd TagUpdate) error {
	if upd.Name != nil {
		newName := *upd.Name
		if strings.TrimSpace(newName) == "" {
			return &core.ValidationError{Field: "tag name", Reason: "cannot be empty"}
		}
		if newName != name && s.tagExists(newName) {
			return &core.ValidationError{Field: "tag name", Reason: fmt.Sprintf("%q already exists", newName)}
		}
	}

	s.engine.SetState(func(st State) State {
		i := slices.IndexFunc(st.Tags, func(t core.Tag) bool { return t.Name == name })
		if i < 0 {
			return st
		}
		tags := slices.Clone(st.Tags)
		t := tags[i]
		if upd.Name != nil {
			t.Name = *upd.Name
		}
		if upd.Color != nil {
			t.Color = *upd.Color
		}
		if upd.Emoji != nil {
			t.Emoji = *upd.Emoji
		}
		tags[i] = t
		st.Tags = tags
		return st
	})
	return nil
}

// RemoveTag deletes a tag from the registry. Protected default tags cannot be
// removed. Notes referencing the removed name keep it; their color resolution
// degrades to FallbackColor.
func (s *Store) RemoveTag(name string) error {
	if protectedTags[name] {
		return fmt.Errorf("remove tag %q: %w", name, core.ErrNotPermitted)
	}

	s.engine.SetState(func(st State) State {
		st.Tags = slices.DeleteFunc(slices.Clone(st.Tags), func(t core.Tag) bool {
			return t.Name == name
		})
		return st
	})
	return nil
}

// TagColor resolves a tag name to its color, falling back to FallbackColor
// for unknown names rather than failing.
func (s *Store) TagColor(name string) string {
	for _, t := range s.engine.GetState().Tags {
		if t.Name == name {
			return t.Color
		}
	}
	return FallbackColor
}

func (s *Store) tagExists(name string) bool {
	return slices.ContainsFunc(s.engine.GetState().Tags, func(t core.Tag) bool {
		return t.Name == name
	})
}
