// Package notebooks implements the notebook store. Pages are strongly
// contained: they exist only inside their parent notebook and die with it.
package notebooks

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/store"
)

// StorageKey is the durable snapshot key for notebooks.
const StorageKey = "notebooks-storage"

// State is the full snapshot owned by the store.
type State struct {
	Notebooks []core.Notebook `json:"notebooks"`
}

// Config wires the store to its collaborators; see notes.Config.
type Config struct {
	Storage core.Storage
	Logger  *slog.Logger
	Clock   func() time.Time
	NewID   func() string
}

// Store owns the notebooks collection. Notebook and page ids are generated by
// the store. Every notebook or page operation targeting a missing id is a
// silent no-op: UI components hold stale references across navigation and
// must not crash.
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
	}, State{Notebooks: []core.Notebook{}})

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

// Notebooks returns the current notebooks slice in insertion order.
func (s *Store) Notebooks() []core.Notebook {
	return s.engine.GetState().Notebooks
}

// Notebook looks up a single notebook by id.
func (s *Store) Notebook(id string) (core.Notebook, bool) {
	for _, nb := range s.engine.GetState().Notebooks {
		if nb.ID == id {
			return nb, true
		}
	}
	return core.Notebook{}, false
}

// FindPage locates a page by id across all notebooks, returning the page and
// its parent notebook id.
func (s *Store) FindPage(pageID string) (core.Page, string, bool) {
	for _, nb := range s.engine.GetState().Notebooks {
		for _, p := range nb.Pages {
			if p.ID == pageID {
				return p, nb.ID, true
			}
		}
	}
	return core.Page{}, "", false
}

// Subscribe registers a selector-scoped observer; see store.Store.Subscribe.
func (s *Store) Subscribe(selector func(State) any, callback func(any)) (unsubscribe func()) {
	return s.engine.Subscribe(selector, callback)
}

// Rehydrate re-reads the durable snapshot, replacing in-memory state.
func (s *Store) Rehydrate() {
	s.engine.Rehydrate()
}

// NewNotebook carries the caller-supplied fields for AddNotebook.
type NewNotebook struct {
	Title string
	Color string
}

// AddNotebook creates a notebook with a fresh id, empty page sequence, and
// timestamps. An empty title is rejected before any mutation.
func (s *Store) AddNotebook(n NewNotebook) (core.Notebook, error) {
	if strings.TrimSpace(n.Title) == "" {
		return core.Notebook{}, &core.ValidationError{Field: "notebook title", Reason: "cannot be empty"}
	}

	now := s.now()
	nb := core.Notebook{
		ID:         s.newID(),
		Title:      n.Title,
		Color:      n.Color,
		Pages:      []core.Page{},
		CreatedAt:  now,
		ModifiedAt: now,
	}

	s.engine.SetState(func(st State) State {
		st.Notebooks = append(slices.Clone(st.Notebooks), nb)
		return st
	})
	return nb, nil
}

// NotebookUpdate carries partial top-level notebook fields; nil means
// unchanged.
type NotebookUpdate struct {
	Title *string
	Color *string
}

// UpdateNotebook merges top-level fields and bumps ModifiedAt.
func (s *Store) UpdateNotebook(id string, upd NotebookUpdate) {
	now := s.now()
	s.mutateNotebook(id, func(nb *core.Notebook) {
		if upd.Title != nil {
			nb.Title = *upd.Title
		}
		if upd.Color != nil {
			nb.Color = *upd.Color
		}
		nb.ModifiedAt = now
	})
}

// DeleteNotebook removes the notebook and, by strong containment, all of its
// pages. Deleting a nonexistent id is a no-op.
func (s *Store) DeleteNotebook(id string) {
	s.engine.SetState(func(st State) State {
		st.Notebooks = slices.DeleteFunc(slices.Clone(st.Notebooks), func(nb core.Notebook) bool {
			return nb.ID == id
		})
		return st
	})
}

// NewPage carries the caller-supplied fields for AddPage.
type NewPage struct {
	Title   string
	Content string
}

// AddPage appends a page with a fresh id to the notebook's page sequence and
// bumps the parent's ModifiedAt (containment mutations propagate modification
// time upward). The bool reports whether the notebook existed.
func (s *Store) AddPage(notebookID string, p NewPage) (core.Page, bool) {
	now := s.now()
	page := core.Page{
		ID:         s.newID(),
		Title:      p.Title,
		Content:    p.Content,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	added := s.mutateNotebook(notebookID, func(nb *core.Notebook) {
		nb.Pages = append(slices.Clone(nb.Pages), page)
		nb.ModifiedAt = now
	})
	if !added {
		return core.Page{}, false
	}
	return page, true
}

// PageUpdate carries partial page fields; nil means unchanged.
type PageUpdate struct {
	Title   *string
	Content *string
}

// UpdatePage merges into the matching page, bumping both the page's and the
// parent notebook's ModifiedAt.
func (s *Store) UpdatePage(notebookID, pageID string, upd PageUpdate) {
	now := s.now()
	s.mutateNotebook(notebookID, func(nb *core.Notebook) {
		i := slices.IndexFunc(nb.Pages, func(p core.Page) bool { return p.ID == pageID })
		if i < 0 {
			return
		}
		pages := slices.Clone(nb.Pages)
		p := pages[i]
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Content != nil {
			p.Content = *upd.Content
		}
		p.ModifiedAt = now
		pages[i] = p
		nb.Pages = pages
		nb.ModifiedAt = now
	})
}

// DeletePage removes one page and bumps the notebook's ModifiedAt. Removing a
// nonexistent page is a no-op and leaves the notebook untouched.
func (s *Store) DeletePage(notebookID, pageID string) {
	now := s.now()
	s.mutateNotebook(notebookID, func(nb *core.Notebook) {
		i := slices.IndexFunc(nb.Pages, func(p core.Page) bool { return p.ID == pageID })
		if i < 0 {
			return
		}
		nb.Pages = slices.Delete(slices.Clone(nb.Pages), i, i+1)
		nb.ModifiedAt = now
	})
}

// mutateNotebook applies fn to a copy of the matching notebook and swaps it
// into a cloned slice. Returns false (and leaves state untouched) when the
// notebook does not exist.
func (s *Store) mutateNotebook(id string, fn func(*core.Notebook)) bool {
	found := false
	s.engine.SetState(func(st State) State {
		i := slices.IndexFunc(st.Notebooks, func(nb core.Notebook) bool { return nb.ID == id })
		if i < 0 {
			return st
		}
		found = true
		notebooks := slices.Clone(st.Notebooks)
		nb := notebooks[i]
		fn(&nb)
		notebooks[i] = nb
		st.Notebooks = notebooks
		return st
	})
	return found
}
