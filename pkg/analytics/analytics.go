// Package analytics computes read-only projections over the domain stores'
// snapshots. Nothing here is cached: every call recomputes from the slices it
// is handed, which is cheap at personal-collection sizes.
package analytics

import (
	"math"
	"time"

	"github.com/plumehq/plume/pkg/core"
)

// Overview aggregates every dashboard projection.
type Overview struct {
	Streak    StreakStats
	Notes     NoteStats
	Tasks     TaskStats
	Notebooks NotebookStats
}

// StreakStats reports consecutive days of activity ending today.
type StreakStats struct {
	Days int
}

// NoteStats counts notes by creation window.
type NoteStats struct {
	Total     int
	ThisWeek  int
	ThisMonth int
}

// TaskStats summarizes task completion.
type TaskStats struct {
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	CompletionRate int // rounded percentage, 0 when Total is 0
}

// NotebookStats summarizes notebook and page activity.
type NotebookStats struct {
	Total      int
	TotalPages int
	WithPages  int
	// ActiveThisWeek/Month sum notebook-level and page-level activity
	// independently: a notebook whose page changed contributes for both
	// itself and the page. This additive, non-deduplicated count is the
	// defined semantics.
	ActiveThisWeek  int
	ActiveThisMonth int
}

// Compute derives the full overview from current snapshots, relative to now.
func Compute(notes []core.Note, tasks []core.Task, notebooks []core.Notebook, now time.Time) Overview {
	return Overview{
		Streak:    StreakStats{Days: Streak(notes, tasks, notebooks, now)},
		Notes:     ComputeNoteStats(notes, now),
		Tasks:     ComputeTaskStats(tasks),
		Notebooks: ComputeNotebookStats(notebooks, now),
	}
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

// Streak counts consecutive calendar days ending today on which anything was
// created or modified: notes, tasks, notebooks, or pages. Today itself must
// have activity for the streak to be nonzero; a streak never reaches across a
// gap. Days are truncated in now's location.
func Streak(notes []core.Note, tasks []core.Task, notebooks []core.Notebook, now time.Time) int {
	loc := now.Location()
	active := make(map[day]bool)

	for _, n := range notes {
		active[dayOf(n.CreatedAt, loc)] = true
		active[dayOf(n.ModifiedAt, loc)] = true
	}
	for _, t := range tasks {
		active[dayOf(t.CreatedAt, loc)] = true
		active[dayOf(t.UpdatedAt, loc)] = true
	}
	for _, nb := range notebooks {
		active[dayOf(nb.CreatedAt, loc)] = true
		active[dayOf(nb.ModifiedAt, loc)] = true
		for _, p := range nb.Pages {
			active[dayOf(p.CreatedAt, loc)] = true
			active[dayOf(p.ModifiedAt, loc)] = true
		}
	}

	streak := 0
	for i := 0; ; i++ {
		if !active[dayOf(now.AddDate(0, 0, -i), loc)] {
			break
		}
		streak++
	}
	return streak
}

// ComputeNoteStats counts notes created within the last 7 days and the last
// calendar month, by CreatedAt.
func ComputeNoteStats(notes []core.Note, now time.Time) NoteStats {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	stats := NoteStats{Total: len(notes)}
	for _, n := range notes {
		if !n.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !n.CreatedAt.Before(monthAgo) {
			stats.ThisMonth++
		}
	}
	return stats
}

// ComputeTaskStats derives completion counts and the rounded completion rate.
// An empty collection yields a rate of 0, not a division error.
func ComputeTaskStats(tasks []core.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case core.StatusCompleted:
			stats.Completed++
		case core.StatusPending:
			stats.Pending++
		case core.StatusOverdue:
			stats.Overdue++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// ComputeNotebookStats derives notebook totals and windowed activity counts.
func ComputeNotebookStats(notebooks []core.Notebook, now time.Time) NotebookStats {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	stats := NotebookStats{Total: len(notebooks)}
	for _, nb := range notebooks {
		stats.TotalPages += len(nb.Pages)
		if len(nb.Pages) > 0 {
			stats.WithPages++
		}

		if activeSince(nb.CreatedAt, nb.ModifiedAt, weekAgo) {
			stats.ActiveThisWeek++
		}
		if activeSince(nb.CreatedAt, nb.ModifiedAt, monthAgo) {
			stats.ActiveThisMonth++
		}
		for _, p := range nb.Pages {
			if activeSince(p.CreatedAt, p.ModifiedAt, weekAgo) {
				stats.ActiveThisWeek++
			}
			if activeSince(p.CreatedAt, p.ModifiedAt, monthAgo) {
				stats.ActiveThisMonth++
			}
		}
	}
	return stats
}

func activeSince(created, modified, cutoff time.Time) bool {
	return !created.Before(cutoff) || !modified.Before(cutoff)
}
