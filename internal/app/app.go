// Package app provides the application layer that orchestrates business logic.
// It owns one workspace session: the in-memory collections, the current user,
// and the snapshot store they are mirrored to after every change. The CLI is a
// thin adapter over the methods here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// ErrNotLoggedIn is returned by operations that need a current user.
var ErrNotLoggedIn = errors.New("not logged in")

// App is one workspace session. Its methods are safe for concurrent use;
// mutating operations run one at a time and persist before returning.
type App struct {
	mu sync.Mutex

	store         memory.Store
	fs            afero.Fs
	now           func() time.Time
	newTaskID     func() string
	newLeaveID    func() string
	maxIterations int
	writer        *llm.Writer

	log     *audit.Log
	tasks   *task.Store
	leaves  *leave.Registry
	users   *user.Directory
	files   *files.Repository
	notices *notify.Feed

	currentUserID string
}

// Option configures an App.
type Option func(*App)

// WithClock sets the time source used for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithIDGenerators sets the task and leave id sources.
func WithIDGenerators(taskID, leaveID func() string) Option {
	return func(a *App) {
		if taskID != nil {
			a.newTaskID = taskID
		}
		if leaveID != nil {
			a.newLeaveID = leaveID
		}
	}
}

// WithMaxIterations bounds the recurrence projection per task.
func WithMaxIterations(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithWriter sets the AI content writer.
func WithWriter(w *llm.Writer) Option {
	return func(a *App) { a.writer = w }
}

// WithFs sets the filesystem used for export, import and saved images.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// Open loads the workspace from store, seeding it when nothing was saved yet.
func Open(ctx context.Context, store memory.Store, opts ...Option) (*App, error) {
	a := &App{
		store:         store,
		fs:            afero.NewOsFs(),
		now:           time.Now,
		newTaskID:     task.NewID,
		newLeaveID:    leave.NewID,
		maxIterations: task.DefaultMaxProjections,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.writer == nil {
		a.writer = llm.NewWriter(nil, nil)
	}

	a.log = audit.NewLog(a.now)
	a.tasks = task.NewStore(a.log, task.WithClock(a.now), task.WithIDGenerator(a.newTaskID))
	a.leaves = leave.NewRegistry()
	a.users = user.NewDirectory()
	a.files = files.NewRepository(a.log, a.now)
	a.notices = notify.NewFeed(a.now)

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if snap.Empty() {
		slog.Debug("seeding empty workspace")
		snap = Seed(a.now())
		a.restore(snap)
		if err := a.persist(ctx); err != nil {
			return nil, err
		}
		return a, nil
	}
	a.restore(snap)
	return a, nil
}

// Close releases the snapshot store.
func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) restore(snap memory.Snapshot) {
	a.users.Load(snap.Users)
	a.tasks.Load(snap.Tasks)
	a.leaves.Load(snap.Leaves)
	a.files.Load(snap.Files)
	a.log.Load(snap.Logs)
	a.notices.Load(snap.Notifications)
	a.currentUserID = snap.CurrentUserID
	if _, err := a.users.Get(a.currentUserID); err != nil {
		a.currentUserID = ""
	}
}

// Snapshot returns the full workspace state.
func (a *App) Snapshot() memory.Snapshot {
	return memory.Snapshot{
		Users:         a.users.List(),
		Tasks:         a.tasks.List(),
		Leaves:        a.leaves.List(),
		Files:         a.files.List(),
		Logs:          a.log.Entries(),
		Notifications: a.notices.List(),
		CurrentUserID: a.currentUserID,
	}
}

func (a *App) persist(ctx context.Context) error {
	if err := a.store.Save(ctx, a.Snapshot()); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// actor returns the current user id. Callers hold a.mu.
func (a *App) actor() (string, error) {
	if a.currentUserID == "" {
		return "", ErrNotLoggedIn
	}
	return a.currentUserID, nil
}

// ResolveTaskID resolves a task id or unique prefix.
func (a *App) ResolveTaskID(ref string) (string, error) {
	return util.ResolveID(a.tasks.IDs(), ref, "task")
}

// ResolveLeaveID resolves a leave id or unique prefix.
func (a *App) ResolveLeaveID(ref string) (string, error) {
	return util.ResolveID(a.leaves.IDs(), ref, "leave")
}

// ResolveFileID resolves a file id or unique prefix.
func (a *App) ResolveFileID(ref string) (string, error) {
	return util.ResolveID(a.files.IDs(), ref, "file")
}

// Notifications returns the feed, newest first.
func (a *App) Notifications() []notify.Notification {
	return a.notices.List()
}

// UnreadNotifications counts unread notifications.
func (a *App) UnreadNotifications() int {
	return a.notices.Unread()
}

// MarkNotificationsRead marks the whole feed as read.
func (a *App) MarkNotificationsRead(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notices.MarkAllRead()
	return a.persist(ctx)
}

// Activity returns audit entries matching f, newest first.
func (a *App) Activity(f audit.Filter) []audit.Entry {
	return a.log.Query(f)
}

// UserName returns the display name for id, or "Unknown".
func (a *App) UserName(id string) string {
	return a.users.Name(id)
}
