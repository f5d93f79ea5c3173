package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// Monday 2024-01-01; the seeded weekly report is due 2024-01-02.
var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func seq(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func openTestApp(t *testing.T, store memory.Store, opts ...Option) *App {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerators(seq("task"), seq("leave")),
		WithFs(afero.NewMemMapFs()),
	}
	a, err := Open(context.Background(), store, append(base, opts...)...)
	require.NoError(t, err)
	return a
}

func newTestStore(t *testing.T) *memory.SQLiteStore {
	t.Helper()
	store, err := memory.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func loggedIn(t *testing.T, opts ...Option) *App {
	t.Helper()
	a := openTestApp(t, newTestStore(t), opts...)
	_, err := a.Login(context.Background(), "", "alice@nexus.com")
	require.NoError(t, err)
	return a
}

func actions(entries []audit.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestOpen_SeedsOnceAndPersists(t *testing.T) {
	store := newTestStore(t)
	a := openTestApp(t, store)

	snap := a.Snapshot()
	assert.Len(t, snap.Users, 3)
	assert.Len(t, snap.Files, 2)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, calendar.MustParse("2024-01-02"), snap.Tasks[0].DueDate)
	assert.Equal(t, []string{"f1"}, snap.Tasks[0].FileIDs)
	assert.Empty(t, snap.CurrentUserID)

	_, err := a.AddTask(context.Background(), task.Task{Title: "Quarterly board pack", Kind: task.KindAdHoc, DueDate: calendar.MustParse("2024-02-01")})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	reopened := openTestApp(t, store)
	assert.Len(t, reopened.Snapshot().Tasks, 2)
}

func TestLogin_ExistingAndNew(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := openTestApp(t, store)

	res, err := a.Login(ctx, "", "ALICE@nexus.com")
	require.NoError(t, err)
	assert.False(t, res.Registered)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "Welcome back, Alice Chen!", a.Notifications()[0].Message)

	res, err = a.Login(ctx, "", "dana.lee@corp.com")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, "Dana Lee", res.User.Name)
	assert.Equal(t, user.DefaultRole, res.User.Role)
	assert.Equal(t, []string{audit.ActionRegister, audit.ActionLogin}, actions(a.Activity(audit.Filter{})))

	// The session survives a restart.
	reopened := openTestApp(t, store)
	current, err := reopened.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, current.ID)
}

func TestSwitchLogoutAndProfile(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	u, err := a.Switch(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
	assert.Equal(t, "Switched to user Bob Smith", a.Activity(audit.Filter{Limit: 1})[0].Details)

	role := "Lead Analyst"
	theme := user.ThemeDark
	u, err = a.UpdateProfile(ctx, user.Profile{Role: &role, Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, "Lead Analyst", u.Role)
	assert.Equal(t, user.ThemeDark, u.ThemePreference)
	assert.Equal(t, "Profile updated.", a.Notifications()[0].Message)

	require.NoError(t, a.Logout(ctx))
	_, err = a.CurrentUser()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = a.UpdateProfile(ctx, user.Profile{Role: &role})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	created, err := a.AddTask(ctx, task.Task{
		Title:   "Stakeholder survey",
		Kind:    task.KindAdHoc,
		DueDate: calendar.MustParse("2024-01-10"),
		FileIDs: []string{"f2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", created.ID)
	assert.Equal(t, "u1", created.AssigneeID)
	assert.Equal(t, "u1", created.CreatorID)
	assert.Equal(t, `Task "Stakeholder survey" created successfully.`, a.Notifications()[0].Message)

	title := "Stakeholder survey v2"
	updated, err := a.UpdateTask(ctx, "task-1", task.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	got, err := a.Task("task-")
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	removed, err := a.DeleteTask(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, title, removed.Title)
	_, err = a.Task("task-1")
	assert.Error(t, err)

	_, err = a.AddTask(ctx, task.Task{Title: "Bad", Kind: task.KindAdHoc, DueDate: calendar.MustParse("2024-01-10"), FileIDs: []string{"missing"}})
	assert.Error(t, err)
}

func TestMoveTask_SpawnsNextWeeklyOccurrence(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	change, err := a.MoveTask(ctx, "t1", task.StatusDone)
	require.NoError(t, err)
	require.NotNil(t, change.Spawned)
	assert.Equal(t, calendar.MustParse("2024-01-09"), change.Spawned.DueDate)
	assert.Equal(t, task.StatusToDo, change.Spawned.Status)
	assert.Equal(t, "Recurring task created for 2024-01-09.", a.Notifications()[0].Message)

	open, err := a.Tasks(task.Query{}, true)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestBookLeave_CoversProjectedOccurrence(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	conflicts, err := a.Conflicts("2024-01-05", "2024-01-20")
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "virtual_t1_2024-01-09", conflicts[0].Target.Key())
	assert.Equal(t, "virtual_t1_2024-01-16", conflicts[1].Target.Key())

	res, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-01-05", End: "2024-01-20", Type: leave.TypeVacation},
		[]leave.Decision{{Target: conflicts[0].Target, AssigneeID: "Bob"}})
	require.NoError(t, err)
	assert.Equal(t, "leave-1", res.Record.ID)
	require.Len(t, res.CreatedTasks, 1)
	assert.Equal(t, "u2", res.CreatedTasks[0].AssigneeID)
	assert.Equal(t, "Leave booked. 1 tasks reassigned/created for coverage.", a.Notifications()[0].Message)
	assert.Equal(t, []string{audit.ActionTaskCreated, audit.ActionLeaveScheduled}, actions(a.Activity(audit.Filter{Limit: 2})))

	covered, err := a.Task(res.CreatedTasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParse("2024-01-09"), covered.DueDate)

	// Closing the source task finds its next slot already covered.
	change, err := a.MoveTask(ctx, "t1", task.StatusDone)
	require.NoError(t, err)
	assert.Nil(t, change.Spawned)

	conflicts, err = a.Conflicts("2024-01-05", "2024-01-20")
	require.NoError(t, err)
	assert.Len(t, conflicts, 0)
}

func TestBookLeave_ReassignsRealTasks(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	conflicts, err := a.Conflicts("2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "t1", conflicts[0].Target.Key())
	assert.Equal(t, "t2", conflicts[1].Target.Key())

	res, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-01-02", End: "2024-01-03"},
		[]leave.Decision{{Target: leave.RealTarget{TaskID: "t2"}, AssigneeID: "u3"}})
	require.NoError(t, err)
	assert.Equal(t, leave.TypeVacation, res.Record.Type)
	require.Len(t, res.UpdatedTasks, 1)

	t2, err := a.Task("t2")
	require.NoError(t, err)
	assert.Equal(t, "u3", t2.AssigneeID)
	assert.Contains(t, a.Activity(audit.Filter{Limit: 1})[0].Details, "to Charlie Kim due to leave.")
}

func TestBookLeave_Rejections(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	_, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-01-20", End: "2024-01-05"}, nil)
	assert.ErrorIs(t, err, leave.ErrInvalidWindow)
	_, err = a.BookLeave(ctx, LeaveRequest{Start: "", End: "2024-01-05"}, nil)
	assert.ErrorIs(t, err, leave.ErrInvalidWindow)

	_, err = a.BookLeave(ctx, LeaveRequest{Start: "2024-01-02", End: "2024-01-03"},
		[]leave.Decision{{Target: leave.RealTarget{TaskID: "t1"}, AssigneeID: "nobody@nexus.com"}})
	assert.ErrorIs(t, err, user.ErrNotFound)

	leaves, err := a.Leaves(false)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestEditAndCancelLeave(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	_, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-03-01", End: "2024-03-02"}, nil)
	require.NoError(t, err)
	_, err = a.BookLeave(ctx, LeaveRequest{Start: "2024-02-01", End: "2024-02-02", Type: leave.TypeSick}, nil)
	require.NoError(t, err)

	leaves, err := a.Leaves(true)
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, "leave-1", leaves[0].ID, "latest start first")

	end := "2024-01-10"
	start := "2024-01-08"
	rec, conflicts, err := a.LeaveConflicts("leave-2", LeaveChanges{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Days())
	require.Len(t, conflicts, 1)

	res, err := a.EditLeave(ctx, "leave-2", LeaveChanges{Start: &start, End: &end},
		[]leave.Decision{{Target: conflicts[0].Target, AssigneeID: "u2"}})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Leave updated. 1 tasks reassigned/created.", res.Summary)
	assert.Equal(t, leave.TypeSick, res.Record.Type)

	cancelled, err := a.CancelLeave(ctx, "leave-1")
	require.NoError(t, err)
	assert.Equal(t, "leave-1", cancelled.ID)
	assert.Equal(t, "Leave request cancelled.", a.Notifications()[0].Message)

	_, err = a.CancelLeave(ctx, "leave-1")
	assert.Error(t, err)
	assert.Len(t, a.Away(calendar.MustParse("2024-01-09")), 1)
}

func TestLeave_OnlyOwnerCanChange(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	_, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-03-01", End: "2024-03-02", Reason: "Conference"}, nil)
	require.NoError(t, err)

	_, err = a.Switch(ctx, "bob@nexus.com")
	require.NoError(t, err)

	reason := "edited by bob"
	_, err = a.EditLeave(ctx, "leave-1", LeaveChanges{Reason: &reason}, nil)
	assert.ErrorIs(t, err, leave.ErrNotOwner)
	_, _, err = a.LeaveConflicts("leave-1", LeaveChanges{})
	assert.ErrorIs(t, err, leave.ErrNotOwner)
	_, err = a.CancelLeave(ctx, "leave-1")
	assert.ErrorIs(t, err, leave.ErrNotOwner)

	rec, err := a.Leave("leave-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "Conference", rec.Reason)
}

func TestBookLeave_ResolvesTaskPrefixes(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	created, err := a.AddTask(ctx, task.Task{Title: "Stakeholder survey", Kind: task.KindAdHoc, DueDate: calendar.MustParse("2024-01-10")})
	require.NoError(t, err)

	_, err = a.BookLeave(ctx, LeaveRequest{Start: "2024-01-08", End: "2024-01-12"},
		[]leave.Decision{{Target: leave.VirtualTarget{SourceTaskID: "t", DueDate: calendar.MustParse("2024-01-09")}, AssigneeID: "u2"}})
	assert.ErrorIs(t, err, util.ErrAmbiguousID)

	res, err := a.BookLeave(ctx, LeaveRequest{Start: "2024-01-08", End: "2024-01-12"},
		[]leave.Decision{{Target: leave.RealTarget{TaskID: "task-"}, AssigneeID: "u2"}})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.UpdatedTasks, 1)
	assert.Equal(t, created.ID, res.UpdatedTasks[0].ID)

	got, err := a.Task(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.AssigneeID)
}

func TestDeleteFile_DetachesFromTasks(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	added, err := a.AddFile(ctx, files.Item{Name: "Churn model", URL: "https://example.com/churn.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, files.TypeDocument, added.Type)

	edited, err := a.EditFile(ctx, added.ID, files.Item{Name: "Churn model v2"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/churn.xlsx", edited.URL)

	_, err = a.DeleteFile(ctx, "f1")
	require.NoError(t, err)
	t1, err := a.Task("t1")
	require.NoError(t, err)
	assert.Empty(t, t1.FileIDs)
	assert.Len(t, a.Files("", ""), 2)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	_, err := a.MoveTask(ctx, "t2", task.StatusDone)
	require.NoError(t, err)

	d, err := a.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Pending)
	assert.Equal(t, 1, d.BAUWorkload)
	assert.Equal(t, 1, d.Completed)
	assert.Equal(t, []string{audit.ActionMoveTask, audit.ActionLogin}, actions(d.Recent))
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	a := loggedIn(t)

	require.NoError(t, a.Export("backup/nexus.yaml"))
	_, err := a.DeleteTask(ctx, "t2")
	require.NoError(t, err)

	snap, err := a.Import(ctx, "backup/nexus.yaml")
	require.NoError(t, err)
	assert.Len(t, snap.Tasks, 2)
	assert.Equal(t, "u1", snap.CurrentUserID)
}

type fakeImages struct{}

func (fakeImages) GenerateImage(ctx context.Context, prompt string) (*llm.Image, error) {
	return &llm.Image{MIMEType: "image/png", Data: []byte("png-bytes")}, nil
}

func TestContent(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	a := loggedIn(t, WithFs(fs), WithWriter(llm.NewWriter(nil, fakeImages{})))

	report, err := a.Standup(ctx)
	require.NoError(t, err)
	assert.Equal(t, llm.MsgKeyMissingStandup, report)
	assert.False(t, a.AIAvailable())

	img, err := a.Infographic(ctx, "Sales funnel", "", "out/funnel.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	data, err := afero.ReadFile(fs, "out/funnel.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = a.Documentation(ctx, llm.DocRequest{Title: "Onboarding"}, "missing.md")
	assert.Error(t, err)

	none := loggedIn(t)
	_, err = none.Infographic(ctx, "Sales funnel", "", "out.png")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestNotificationsMarkRead(t *testing.T) {
	a := loggedIn(t)
	assert.Equal(t, 1, a.UnreadNotifications())
	require.NoError(t, a.MarkNotificationsRead(context.Background()))
	assert.Equal(t, 0, a.UnreadNotifications())
	assert.Equal(t, notify.Success, a.Notifications()[0].Type)
}
