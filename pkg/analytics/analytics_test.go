package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plumehq/plume/pkg/analytics"
	"github.com/plumehq/plume/pkg/core"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func noteAt(created time.Time) core.Note {
	return core.Note{ID: "n", Title: "t", CreatedAt: created, ModifiedAt: created}
}

func taskWith(status core.TaskStatus) core.Task {
	return core.Task{ID: "t", Title: "t", Status: status, CreatedAt: now, UpdatedAt: now}
}

func TestStreakZeroWithoutActivityToday(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	notes := []core.Note{noteAt(yesterday)}

	got := analytics.Streak(notes, nil, nil, now)
	assert.Equal(t, 0, got, "a streak must include today")
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	notes := []core.Note{
		noteAt(now),
		noteAt(now.AddDate(0, 0, -1)),
		noteAt(now.AddDate(0, 0, -2)),
	}

	assert.Equal(t, 3, analytics.Streak(notes, nil, nil, now))
}

func TestStreakBreaksOnGap(t *testing.T) {
	notes := []core.Note{
		noteAt(now),
		noteAt(now.AddDate(0, 0, -1)),
		// day -2 missing
		noteAt(now.AddDate(0, 0, -3)),
	}

	assert.Equal(t, 2, analytics.Streak(notes, nil, nil, now))
}

func TestStreakMixesAllEntityKinds(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	twoDaysAgo := now.AddDate(0, 0, -2)

	tasks := []core.Task{{ID: "t1", CreatedAt: twoDaysAgo, UpdatedAt: now}}
	notebooks := []core.Notebook{{
		ID: "nb1", CreatedAt: twoDaysAgo, ModifiedAt: twoDaysAgo,
		Pages: []core.Page{{ID: "p1", CreatedAt: yesterday, ModifiedAt: yesterday}},
	}}

	assert.Equal(t, 3, analytics.Streak(nil, tasks, notebooks, now),
		"task activity today, page activity yesterday, notebook activity two days ago")
}

func TestStreakDifferentClockTimesSameDayCountOnce(t *testing.T) {
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	notes := []core.Note{noteAt(morning), noteAt(evening)}

	assert.Equal(t, 1, analytics.Streak(notes, nil, nil, now))
}

func TestNoteStatsWindows(t *testing.T) {
	notes := []core.Note{
		noteAt(now),                    // this week and this month
		noteAt(now.AddDate(0, 0, -10)), // this month only
		noteAt(now.AddDate(0, -2, 0)),  // neither
	}

	got := analytics.ComputeNoteStats(notes, now)
	assert.Equal(t, analytics.NoteStats{Total: 3, ThisWeek: 1, ThisMonth: 2}, got)
}

func TestNoteStatsWindowBoundaryIsInclusive(t *testing.T) {
	exactly := noteAt(now.AddDate(0, 0, -7))

	got := analytics.ComputeNoteStats([]core.Note{exactly}, now)
	assert.Equal(t, 1, got.ThisWeek)
}

func TestTaskStatsEmptyCollection(t *testing.T) {
	got := analytics.ComputeTaskStats(nil)
	assert.Equal(t, analytics.TaskStats{}, got, "no tasks yields a zero rate, not a division error")
}

func TestTaskStatsCountsAndRoundedRate(t *testing.T) {
	tasks := []core.Task{
		taskWith(core.StatusCompleted),
		taskWith(core.StatusPending),
		taskWith(core.StatusOverdue),
	}

	got := analytics.ComputeTaskStats(tasks)
	assert.Equal(t, analytics.TaskStats{
		Total: 3, Completed: 1, Pending: 1, Overdue: 1, CompletionRate: 33,
	}, got)
}

func TestTaskStatsRateRoundsHalfUp(t *testing.T) {
	tasks := []core.Task{
		taskWith(core.StatusCompleted),
		taskWith(core.StatusPending),
	}

	assert.Equal(t, 50, analytics.ComputeTaskStats(tasks).CompletionRate)

	tasks = append(tasks, taskWith(core.StatusCompleted))
	assert.Equal(t, 67, analytics.ComputeTaskStats(tasks).CompletionRate, "2/3 rounds to 67")
}

func TestNotebookStatsActivityIsAdditive(t *testing.T) {
	old := now.AddDate(0, -3, 0)
	notebooks := []core.Notebook{
		{
			// created long ago, page touched this week: notebook counts via
			// ModifiedAt, page counts on its own, so 2 this week
			ID: "nb1", CreatedAt: old, ModifiedAt: now,
			Pages: []core.Page{{ID: "p1", CreatedAt: old, ModifiedAt: now}},
		},
		{
			ID: "nb2", CreatedAt: old, ModifiedAt: old,
		},
	}

	got := analytics.ComputeNotebookStats(notebooks, now)
	assert.Equal(t, analytics.NotebookStats{
		Total:           2,
		TotalPages:      1,
		WithPages:       1,
		ActiveThisWeek:  2,
		ActiveThisMonth: 2,
	}, got)
}

func TestComputeAssemblesOverview(t *testing.T) {
	notes := []core.Note{noteAt(now)}
	tasks := []core.Task{taskWith(core.StatusCompleted)}

	got := analytics.Compute(notes, tasks, nil, now)
	assert.Equal(t, 1, got.Streak.Days)
	assert.Equal(t, 1, got.Notes.Total)
	assert.Equal(t, 100, got.Tasks.CompletionRate)
	assert.Zero(t, got.Notebooks)
}
