// Package core defines the domain entities, the storage ports, and the error
// taxonomy shared by every store.
package core

import "time"

// Note is a single free-form note. The ID is assigned at creation and never
// changes; ModifiedAt is refreshed on every content-bearing mutation.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Tag        string    `json:"tag"`
	IsPinned   bool      `json:"isPinned"`
}

// Tag is identified by its name. Notes reference tags by name only; the
// relationship is lookup-only and deleting a tag leaves referencing notes
// untouched.
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Emoji string `json:"emoji,omitempty"`
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TaskStatus is the lifecycle state of a task. The pending -> overdue
// transition is derived from wall-clock time, never a direct user action.
// A completed task never auto-transitions to overdue.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusOverdue   TaskStatus = "overdue"
)

// Task is a todo item. Unlike notes and notebooks, task IDs are supplied by
// the caller.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Page exists only inside its parent notebook. Deleting the notebook deletes
// its pages.
type Page struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Notebook owns an ordered sequence of pages. Page order is insertion order
// and is display-significant.
type Notebook struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Color      string    `json:"color"`
	Pages      []Page    `json:"pages"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// EventType represents the type of change observed on the durable medium.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an external change to a storage key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}
