// Package plume is the Composition Root for the plume data layer.
//
// It connects the domain stores (notes, tasks, notebooks) with the durable
// medium adapters through the generic persistent store engine.
//
// Philosophy:
//
// Plume is the data layer of a personal productivity app: mutable collections
// of entities held in memory, mutated through a fixed set of operations,
// automatically serialized to durable storage, and rehydrated on startup.
// UI observers subscribe to exactly the slice of state they depend on and are
// notified only when that slice changes.
//
// Features:
//
//   - **Persistent Store Engine**: generic state container with selector
//     subscriptions and best-effort snapshot persistence (pkg/store).
//   - **Domain Stores**: note/tag, task, and notebook/page stores with
//     merge-style updates and a uniform missing-id-is-a-no-op policy.
//   - **Derived Analytics**: streaks, note/task/notebook stats as pure
//     projections (pkg/analytics).
//   - **Draft Buffering**: debounced editor flush with cancel-on-unmount
//     (pkg/draft).
//   - **Pluggable Medium**: directory-backed or in-memory storage via
//     core.Storage; external writers detected with fsnotify (pkg/adapters/blob).
//
// Usage:
//
//	app, err := plume.Open("./data",
//		plume.WithLogger(logger),
//	)
//
//	note := app.Notes.AddNote(notes.NewNote{Title: "groceries"})
//	app.Tasks.RecomputeOverdue()
package plume
