package leave

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

var commitNow = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

func names(id string) string {
	return map[string]string{"alice": "Alice Chen", "bob": "Bob Smith", "charlie": "Charlie Kim"}[id]
}

func newRequest(decisions ...Decision) Request {
	n := 0
	return Request{
		Record: Record{
			UserID:    "alice",
			StartDate: calendar.MustParse("2024-01-05"),
			EndDate:   calendar.MustParse("2024-01-20"),
			Type:      TypeVacation,
			Reason:    "Family trip",
		},
		Decisions: decisions,
		Tasks: []task.Task{
			t1(),
			{ID: "task-a", Title: "Requirements workshop", Kind: task.KindAdHoc, Status: task.StatusToDo, AssigneeID: "alice", DueDate: calendar.MustParse("2024-01-10")},
		},
		ActorID:  "alice",
		UserName: names,
		Now:      func() time.Time { return commitNow },
		NewTaskID: func() string {
			n++
			return fmt.Sprintf("task-new%d", n)
		},
		NewLeaveID: func() string { return "leave-1" },
	}
}

func logActions(entries []audit.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestCommit_NewLeaveNoDecisions(t *testing.T) {
	res, err := Commit(newRequest())
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "leave-1", res.Record.ID)
	assert.Equal(t, StatusApproved, res.Record.Status)
	assert.Empty(t, res.UpdatedTasks)
	assert.Empty(t, res.CreatedTasks)
	assert.Equal(t, []string{audit.ActionLeaveScheduled}, logActions(res.LogEntries))
	assert.Equal(t, "Scheduled Vacation from 2024-01-05 to 2024-01-20", res.LogEntries[0].Details)
	assert.Equal(t, "Leave booked successfully.", res.Summary)
}

func TestCommit_ReassignAndPromote(t *testing.T) {
	req := newRequest(
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-08")}, AssigneeID: "bob"},
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "charlie"},
	)
	snapshot := append([]task.Task(nil), req.Tasks...)

	res, err := Commit(req)
	require.NoError(t, err)

	require.Len(t, res.UpdatedTasks, 1)
	assert.Equal(t, "task-a", res.UpdatedTasks[0].ID)
	assert.Equal(t, "charlie", res.UpdatedTasks[0].AssigneeID)

	require.Len(t, res.CreatedTasks, 1)
	created := res.CreatedTasks[0]
	assert.Equal(t, "task-new1", created.ID)
	assert.Equal(t, "2024-01-08", created.DueDate.String())
	assert.Equal(t, "bob", created.AssigneeID)
	assert.Equal(t, task.StatusToDo, created.Status)
	assert.Equal(t, commitNow, created.CreatedAt)
	assert.Equal(t, "Weekly KPI Report", created.Title)
	assert.Equal(t, task.FrequencyWeekly, created.Frequency)

	// The snapshot, including the source task, is left alone.
	assert.Equal(t, snapshot, req.Tasks)

	assert.Equal(t, []string{audit.ActionLeaveScheduled, audit.ActionTaskReassigned, audit.ActionTaskCreated}, logActions(res.LogEntries))
	assert.Equal(t, `Reassigned "Requirements workshop" to Charlie Kim due to leave.`, res.LogEntries[1].Details)
	assert.Equal(t, `Created future task "Weekly KPI Report" for coverage by Bob Smith.`, res.LogEntries[2].Details)
	assert.Equal(t, "task-new1", res.LogEntries[2].EntityID)
	assert.Equal(t, "Leave booked. 2 tasks reassigned/created for coverage.", res.Summary)
}

func TestCommit_SelfAssignmentIsNoOp(t *testing.T) {
	res, err := Commit(newRequest(
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "alice"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-15")}, AssigneeID: "alice"},
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: ""},
	))
	require.NoError(t, err)

	assert.Empty(t, res.UpdatedTasks)
	assert.Empty(t, res.CreatedTasks)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, []string{audit.ActionLeaveScheduled}, logActions(res.LogEntries))
	assert.Equal(t, "Leave booked successfully.", res.Summary)
}

func TestCommit_MissingSourceIsSkipped(t *testing.T) {
	res, err := Commit(newRequest(
		Decision{Target: VirtualTarget{SourceTaskID: "task-gone", DueDate: calendar.MustParse("2024-01-08")}, AssigneeID: "bob"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-15")}, AssigneeID: "bob"},
		Decision{Target: RealTarget{TaskID: "task-vanished"}, AssigneeID: "bob"},
	))
	require.NoError(t, err)

	require.Len(t, res.Skipped, 2)
	assert.ErrorIs(t, res.Skipped[0], task.ErrNotFound)
	assert.ErrorIs(t, res.Skipped[1], ErrSourceTaskNotFound)
	require.Len(t, res.CreatedTasks, 1)
	assert.Equal(t, "2024-01-15", res.CreatedTasks[0].DueDate.String())
	assert.Equal(t, "Leave booked. 1 tasks reassigned/created for coverage.", res.Summary)
}

func TestCommit_LastDecisionPerTargetWins(t *testing.T) {
	res, err := Commit(newRequest(
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "bob"},
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "charlie"},
	))
	require.NoError(t, err)
	require.Len(t, res.UpdatedTasks, 1)
	assert.Equal(t, "charlie", res.UpdatedTasks[0].AssigneeID)

	// Handing the work back to the owner cancels an earlier reassignment.
	res, err = Commit(newRequest(
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "bob"},
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "alice"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-08")}, AssigneeID: "bob"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-08")}, AssigneeID: "alice"},
	))
	require.NoError(t, err)
	assert.Empty(t, res.UpdatedTasks)
	assert.Empty(t, res.CreatedTasks)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "Leave booked successfully.", res.Summary)
}

func TestCommit_WorkOutsideLeaveIsSkipped(t *testing.T) {
	req := newRequest(
		Decision{Target: RealTarget{TaskID: "task-bob"}, AssigneeID: "charlie"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-09")}, AssigneeID: "bob"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-t1", DueDate: calendar.MustParse("2024-01-29")}, AssigneeID: "bob"},
		Decision{Target: VirtualTarget{SourceTaskID: "task-bob", DueDate: calendar.MustParse("2024-01-12")}, AssigneeID: "charlie"},
		Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "bob"},
	)
	req.Tasks = append(req.Tasks, task.Task{
		ID: "task-bob", Title: "Data cleanup", Kind: task.KindBAU, Frequency: task.FrequencyWeekly,
		Status: task.StatusToDo, AssigneeID: "bob", DueDate: calendar.MustParse("2024-01-05"),
	})

	res, err := Commit(req)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 4)
	for _, skipped := range res.Skipped {
		assert.ErrorIs(t, skipped, ErrNotConflict)
	}
	require.Len(t, res.UpdatedTasks, 1)
	assert.Equal(t, "task-a", res.UpdatedTasks[0].ID)
	assert.Empty(t, res.CreatedTasks)
}

func TestCommit_UpdateExistingLeave(t *testing.T) {
	req := newRequest(Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "bob"})
	req.Record.ID = "leave-existing"
	req.Record.Status = StatusPending

	res, err := Commit(req)
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, "leave-existing", res.Record.ID)
	assert.Equal(t, StatusApproved, res.Record.Status)
	assert.Equal(t, []string{audit.ActionLeaveUpdated, audit.ActionTaskReassigned}, logActions(res.LogEntries))
	assert.Equal(t, `Reassigned "Requirements workshop" to Bob Smith due to leave update.`, res.LogEntries[1].Details)
	assert.Equal(t, "Leave updated. 1 tasks reassigned/created.", res.Summary)

	req.Decisions = nil
	res, err = Commit(req)
	require.NoError(t, err)
	assert.Equal(t, "Leave updated successfully.", res.Summary)
}

func TestCommit_InvalidWindow(t *testing.T) {
	req := newRequest()
	req.Record.EndDate = calendar.MustParse("2024-01-01")
	_, err := Commit(req)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req = newRequest()
	req.Record.StartDate = calendar.Date{}
	_, err = Commit(req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCommit_UnknownAssigneeName(t *testing.T) {
	req := newRequest(Decision{Target: RealTarget{TaskID: "task-a"}, AssigneeID: "dave"})
	req.UserName = nil
	res, err := Commit(req)
	require.NoError(t, err)
	assert.Contains(t, res.LogEntries[1].Details, "to Unknown due to leave.")
}

func TestCommit_ConflictsRoundTrip(t *testing.T) {
	req := newRequest()
	conflicts := FindConflicts(req.Record.Window(), req.Tasks, "alice", 50)
	require.Len(t, conflicts, 3)
	for _, c := range conflicts {
		req.Decisions = append(req.Decisions, Decision{Target: c.Target, AssigneeID: "bob"})
	}

	res, err := Commit(req)
	require.NoError(t, err)
	assert.Len(t, res.UpdatedTasks, 1)
	assert.Len(t, res.CreatedTasks, 2)
	assert.Equal(t, 3, res.Changes())
}
