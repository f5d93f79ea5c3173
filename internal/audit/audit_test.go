package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLog_RecordPrependsAndFillsDefaults(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewLog(fixedClock(now))

	l.Record(New("u1", ActionCreateTask, "Created task X", EntityTask, "task-1"))
	l.Record(New("u1", ActionMoveTask, "Moved X to Done", EntityTask, "task-1"))

	got := l.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, ActionMoveTask, got[0].Action)
	assert.Equal(t, ActionCreateTask, got[1].Action)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, now, got[1].Timestamp)
}

func TestLog_Query(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLog(nil)
	l.Load([]Entry{
		{ID: "3", UserID: "u2", Action: ActionLeaveScheduled, Details: "Vacation", Timestamp: base.Add(3 * time.Hour)},
		{ID: "2", UserID: "u1", Action: ActionMoveTask, Details: "Weekly KPI Report to Done", Timestamp: base.Add(2 * time.Hour)},
		{ID: "1", UserID: "u1", Action: ActionCreateTask, Details: "Weekly KPI Report", Timestamp: base.Add(time.Hour)},
	})

	assert.Len(t, l.Query(Filter{UserID: "u1"}), 2)
	assert.Len(t, l.Query(Filter{Action: "move task"}), 1)
	assert.Len(t, l.Query(Filter{Search: "kpi"}), 2)
	assert.Len(t, l.Query(Filter{Since: base.Add(150 * time.Minute)}), 1)

	limited := l.Query(Filter{Limit: 2})
	require.Len(t, limited, 2)
	assert.Equal(t, "3", limited[0].ID)
}

func TestRecorder_KeepsCallOrder(t *testing.T) {
	var r Recorder
	r.Record(Entry{Action: "a"})
	r.Record(Entry{Action: "b"})
	assert.Equal(t, "a", r.Entries[0].Action)
	assert.Equal(t, "b", r.Entries[1].Action)
}
