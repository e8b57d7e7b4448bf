package tasks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/tasks"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func stepClock() func() time.Time {
	t := noon
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestAddTaskRequiresCallerSuppliedID(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	err := s.AddTask(core.Task{Title: "no id"})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, s.Tasks())
}

func TestAddTaskRejectsDuplicateID(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "first"}))
	err := s.AddTask(core.Task{ID: "t1", Title: "second"})
	require.Error(t, err)
	assert.Len(t, s.Tasks(), 1)
}

func TestAddTaskFillsDefaults(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "defaults"}))

	got, ok := s.Task("t1")
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.Equal(t, core.PriorityMedium, got.Priority)
	assert.True(t, got.CreatedAt.Equal(noon))
	assert.True(t, got.UpdatedAt.Equal(noon))
	assert.Nil(t, got.DueDate)
}

func TestUpdateTaskMergesAndBumpsUpdatedAt(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: stepClock()})
	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "before", Description: "desc"}))
	before, _ := s.Task("t1")

	title := "after"
	prio := core.PriorityHigh
	s.UpdateTask("t1", tasks.Update{Title: &title, Priority: &prio})

	got, _ := s.Task("t1")
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "desc", got.Description, "unspecified fields unchanged")
	assert.Equal(t, core.PriorityHigh, got.Priority)
	assert.True(t, got.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateTaskClearDueDate(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: stepClock()})
	due := noon.AddDate(0, 0, 3)
	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "dated", DueDate: &due}))

	s.UpdateTask("t1", tasks.Update{ClearDueDate: true})

	got, _ := s.Task("t1")
	assert.Nil(t, got.DueDate)
}

func TestUpdateTaskMissingIDIsNoOp(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: stepClock()})
	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "keep"}))
	before := s.State()

	title := "ghost"
	s.UpdateTask("missing", tasks.Update{Title: &title})
	assert.Equal(t, before, s.State())
}

func TestDeleteTaskIsIdempotent(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: stepClock()})
	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "gone"}))

	s.DeleteTask("t1")
	after := s.State()
	s.DeleteTask("t1")
	assert.Equal(t, after, s.State())
}

func TestRecomputeOverdueTransitionsPastDuePending(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	yesterday := noon.AddDate(0, 0, -1)
	tomorrow := noon.AddDate(0, 0, 1)
	require.NoError(t, s.AddTask(core.Task{ID: "past", Title: "late", DueDate: &yesterday}))
	require.NoError(t, s.AddTask(core.Task{ID: "future", Title: "fine", DueDate: &tomorrow}))
	require.NoError(t, s.AddTask(core.Task{ID: "undated", Title: "whenever"}))

	n := s.RecomputeOverdue()
	assert.Equal(t, 1, n)

	past, _ := s.Task("past")
	assert.Equal(t, core.StatusOverdue, past.Status)

	future, _ := s.Task("future")
	assert.Equal(t, core.StatusPending, future.Status)

	undated, _ := s.Task("undated")
	assert.Equal(t, core.StatusPending, undated.Status)
}

func TestRecomputeOverdueDueTodayIsNotOverdue(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	thisMorning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddTask(core.Task{ID: "today", Title: "due today", DueDate: &thisMorning}))

	assert.Equal(t, 0, s.RecomputeOverdue(), "overdue means before the start of the current day")
}

func TestRecomputeOverdueIsIdempotent(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	yesterday := noon.AddDate(0, 0, -1)
	require.NoError(t, s.AddTask(core.Task{ID: "past", Title: "late", DueDate: &yesterday}))

	require.Equal(t, 1, s.RecomputeOverdue())
	after := s.State()

	assert.Equal(t, 0, s.RecomputeOverdue(), "second run no-ops: status is no longer pending")
	assert.Equal(t, after, s.State())
}

func TestRecomputeOverdueNeverTouchesCompleted(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: fixedClock(noon)})

	yesterday := noon.AddDate(0, 0, -1)
	require.NoError(t, s.AddTask(core.Task{
		ID: "done", Title: "finished late", DueDate: &yesterday, Status: core.StatusCompleted,
	}))

	assert.Equal(t, 0, s.RecomputeOverdue())
	got, _ := s.Task("done")
	assert.Equal(t, core.StatusCompleted, got.Status, "completed never auto-transitions to overdue")
}

func TestExplicitCompletionToggle(t *testing.T) {
	s := tasks.New(tasks.Config{Clock: stepClock()})
	require.NoError(t, s.AddTask(core.Task{ID: "t1", Title: "toggle me"}))

	completed := core.StatusCompleted
	s.UpdateTask("t1", tasks.Update{Status: &completed})
	got, _ := s.Task("t1")
	assert.Equal(t, core.StatusCompleted, got.Status)

	pending := core.StatusPending
	s.UpdateTask("t1", tasks.Update{Status: &pending})
	got, _ = s.Task("t1")
	assert.Equal(t, core.StatusPending, got.Status)
}
