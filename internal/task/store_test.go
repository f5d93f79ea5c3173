package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
)

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *audit.Recorder) {
	t.Helper()
	rec := &audit.Recorder{}
	n := 0
	s := NewStore(rec,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
	)
	return s, rec
}

func actions(rec *audit.Recorder) []string {
	out := make([]string, len(rec.Entries))
	for i, e := range rec.Entries {
		out[i] = e.Action
	}
	return out
}

func seedWeekly(t *testing.T, s *Store, status Status) Task {
	t.Helper()
	created, err := s.Create("u1", Task{
		Title:      "Weekly KPI Report",
		Kind:       KindBAU,
		Frequency:  FrequencyWeekly,
		Status:     status,
		Priority:   PriorityHigh,
		AssigneeID: "u1",
		DueDate:    calendar.MustParse("2024-01-01"),
		DueTime:    "09:30",
		FileIDs:    []string{"f1"},
	})
	require.NoError(t, err)
	return created
}

func TestCreate_AssignsIdentityAndDefaults(t *testing.T) {
	s, rec := newTestStore(t)

	got, err := s.Create("u1", Task{ID: "ignored", Title: "Draft BRD", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-02-01")})
	require.NoError(t, err)

	assert.Equal(t, "task-1", got.ID)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Equal(t, StatusToDo, got.Status)
	assert.Equal(t, PriorityMedium, got.Priority)
	assert.Equal(t, "u1", got.CreatorID)
	assert.Equal(t, []string{audit.ActionCreateTask}, actions(rec))
	assert.Equal(t, "task-1", rec.Entries[0].EntityID)
}

func TestCreate_NewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("u1", Task{Title: "first", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-02-01")})
	require.NoError(t, err)
	_, err = s.Create("u1", Task{Title: "second", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-02-01")})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	s, rec := newTestStore(t)

	_, err := s.Create("u1", Task{Title: "Ad-hoc with frequency", Kind: KindAdHoc, Frequency: FrequencyDaily, DueDate: calendar.MustParse("2024-01-01")})
	assert.Error(t, err)
	_, err = s.Create("u1", Task{Title: "  ", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-01-01")})
	assert.Error(t, err)
	_, err = s.Create("u1", Task{Title: "no date", Kind: KindAdHoc})
	assert.Error(t, err)

	assert.Empty(t, s.List())
	assert.Empty(t, rec.Entries)
}

func TestUpdate_MergesFields(t *testing.T) {
	s, rec := newTestStore(t)
	orig := seedWeekly(t, s, StatusToDo)

	title := "Weekly KPI Pack"
	assignee := "u2"
	got, err := s.Update("u1", orig.ID, Patch{Title: &title, AssigneeID: &assignee})
	require.NoError(t, err)

	assert.Equal(t, "Weekly KPI Pack", got.Title)
	assert.Equal(t, "u2", got.AssigneeID)
	assert.Equal(t, FrequencyWeekly, got.Frequency)
	assert.Equal(t, orig.DueDate, got.DueDate)
	assert.Equal(t, audit.ActionUpdateTask, rec.Entries[len(rec.Entries)-1].Action)
}

func TestUpdate_SwitchingToAdHocClearsFrequency(t *testing.T) {
	s, _ := newTestStore(t)
	orig := seedWeekly(t, s, StatusToDo)

	kind := KindAdHoc
	got, err := s.Update("u1", orig.ID, Patch{Kind: &kind})
	require.NoError(t, err)
	assert.Empty(t, got.Frequency)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update("u1", "task-missing", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeStatus_SpawnsNextOccurrence(t *testing.T) {
	s, rec := newTestStore(t)
	t1 := seedWeekly(t, s, StatusInProgress)

	res, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, res.Task.Status)
	require.NotNil(t, res.Spawned)
	t2 := *res.Spawned
	assert.Equal(t, "2024-01-08", t2.DueDate.String())
	assert.Equal(t, StatusToDo, t2.Status)
	assert.Equal(t, t1.Title, t2.Title)
	assert.Equal(t, t1.Frequency, t2.Frequency)
	assert.Equal(t, t1.Priority, t2.Priority)
	assert.Equal(t, t1.AssigneeID, t2.AssigneeID)
	assert.Equal(t, t1.FileIDs, t2.FileIDs)
	assert.Equal(t, t1.DueTime, t2.DueTime)
	assert.NotEqual(t, t1.ID, t2.ID)

	stored, err := s.Get(t1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, stored.Status)
	assert.Len(t, s.List(), 2)
	assert.Equal(t, t2.ID, s.List()[0].ID)

	assert.Equal(t, []string{audit.ActionCreateTask, audit.ActionRecurringTask, audit.ActionMoveTask}, actions(rec))
	assert.Equal(t, t2.ID, rec.Entries[1].EntityID)
	assert.Equal(t, t1.ID, rec.Entries[2].EntityID)
}

func TestChangeStatus_DoneAgainDoesNotSpawn(t *testing.T) {
	s, rec := newTestStore(t)
	t1 := seedWeekly(t, s, StatusInProgress)

	_, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)
	res, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)

	assert.Nil(t, res.Spawned)
	assert.Len(t, s.List(), 2)
	assert.Equal(t, audit.ActionMoveTask, rec.Entries[len(rec.Entries)-1].Action)
}

func TestChangeStatus_DuplicateSuppressed(t *testing.T) {
	s, _ := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)
	_, err := s.Create("u2", Task{
		Title:      t1.Title,
		Kind:       KindBAU,
		Frequency:  FrequencyWeekly,
		AssigneeID: "u2",
		DueDate:    calendar.MustParse("2024-01-08"),
	})
	require.NoError(t, err)

	res, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)
	assert.Nil(t, res.Spawned)
	assert.Len(t, s.List(), 2)
}

func TestChangeStatus_ReopenThenCloseSpawnsOnlyIfSlotFree(t *testing.T) {
	s, _ := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)

	_, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)
	_, err = s.ChangeStatus("u1", t1.ID, StatusToDo)
	require.NoError(t, err)
	res, err := s.ChangeStatus("u1", t1.ID, StatusDone)
	require.NoError(t, err)

	assert.Nil(t, res.Spawned, "next slot already holds the first spawned task")
	assert.Len(t, s.List(), 2)
}

func TestChangeStatus_AnyTransitionAllowed(t *testing.T) {
	s, _ := newTestStore(t)
	created, err := s.Create("u1", Task{Title: "One-off", Kind: KindAdHoc, Status: StatusDone, DueDate: calendar.MustParse("2024-01-01")})
	require.NoError(t, err)

	for _, st := range []Status{StatusToDo, StatusInReview, StatusInProgress, StatusDone} {
		res, err := s.ChangeStatus("u1", created.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, res.Task.Status)
		assert.Nil(t, res.Spawned)
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	s, rec := newTestStore(t)
	_, err := s.ChangeStatus("u1", "task-missing", StatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.Entries)
}

func TestDelete(t *testing.T) {
	s, rec := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)

	removed, ok := s.Delete("u1", t1.ID)
	assert.True(t, ok)
	assert.Equal(t, t1.ID, removed.ID)
	assert.Empty(t, s.List())

	_, ok = s.Delete("u1", t1.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{audit.ActionCreateTask, audit.ActionDeleteTask}, actions(rec))
}

func TestDetachFile(t *testing.T) {
	s, _ := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)
	other, err := s.Create("u1", Task{Title: "Plain", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-01-01")})
	require.NoError(t, err)

	changed := s.DetachFile("f1")
	require.Len(t, changed, 1)
	assert.Equal(t, t1.ID, changed[0].ID)

	got, err := s.Get(t1.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FileIDs)
	got, err = s.Get(other.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FileIDs)
}

func TestMerge(t *testing.T) {
	s, _ := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)

	t1.AssigneeID = "u2"
	c1 := Task{ID: "task-c1", Title: "Coverage A", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-01-08")}
	c2 := Task{ID: "task-c2", Title: "Coverage B", Kind: KindAdHoc, DueDate: calendar.MustParse("2024-01-15")}
	s.Merge([]Task{t1, {ID: "task-gone"}}, []Task{c1, c2})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "task-c2", list[0].ID)
	assert.Equal(t, "task-c1", list[1].ID)
	assert.Equal(t, "u2", list[2].AssigneeID)
}

func TestList_ReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t)
	t1 := seedWeekly(t, s, StatusToDo)

	list := s.List()
	list[0].FileIDs[0] = "mutated"
	list[0].Title = "mutated"

	got, err := s.Get(t1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly KPI Report", got.Title)
	assert.Equal(t, []string{"f1"}, got.FileIDs)
}
