package app

import (
	"context"
	"fmt"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

// AddTask creates a task on behalf of the current user, who also becomes
// the assignee when none is given. File references may be id prefixes.
func (a *App) AddTask(ctx context.Context, t task.Task) (task.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return task.Task{}, err
	}
	if t.AssigneeID == "" {
		t.AssigneeID = actor
	}
	if t.FileIDs, err = a.resolveFiles(t.FileIDs); err != nil {
		return task.Task{}, err
	}
	t.CreatorID = actor
	created, err := a.tasks.Create(actor, t)
	if err != nil {
		return task.Task{}, err
	}
	a.notices.Push(fmt.Sprintf("Task %q created successfully.", created.Title), notify.Success)
	if err := a.persist(ctx); err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// Tasks filters and sorts the board. mine restricts it to the current
// user's tasks.
func (a *App) Tasks(q task.Query, mine bool) ([]task.Task, error) {
	if mine {
		a.mu.Lock()
		actor, err := a.actor()
		a.mu.Unlock()
		if err != nil {
			return nil, err
		}
		q.AssigneeID = actor
	}
	return q.Apply(a.tasks.List()), nil
}

// Task returns the task with id or unique prefix ref.
func (a *App) Task(ref string) (task.Task, error) {
	id, err := a.ResolveTaskID(ref)
	if err != nil {
		return task.Task{}, err
	}
	return a.tasks.Get(id)
}

// UpdateTask applies p to the task ref.
func (a *App) UpdateTask(ctx context.Context, ref string, p task.Patch) (task.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return task.Task{}, err
	}
	id, err := a.ResolveTaskID(ref)
	if err != nil {
		return task.Task{}, err
	}
	if p.FileIDs != nil {
		ids, err := a.resolveFiles(*p.FileIDs)
		if err != nil {
			return task.Task{}, err
		}
		p.FileIDs = &ids
	}
	updated, err := a.tasks.Update(actor, id, p)
	if err != nil {
		return task.Task{}, err
	}
	a.notices.Push(fmt.Sprintf("Task %q updated.", updated.Title), notify.Info)
	if err := a.persist(ctx); err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

// MoveTask changes the status of ref. Closing a recurring task schedules
// its next occurrence.
func (a *App) MoveTask(ctx context.Context, ref string, status task.Status) (task.StatusChange, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return task.StatusChange{}, err
	}
	id, err := a.ResolveTaskID(ref)
	if err != nil {
		return task.StatusChange{}, err
	}
	change, err := a.tasks.ChangeStatus(actor, id, status)
	if err != nil {
		return task.StatusChange{}, err
	}
	if change.Spawned != nil {
		a.notices.Push(fmt.Sprintf("Recurring task created for %s.", change.Spawned.DueDate), notify.Info)
	}
	if err := a.persist(ctx); err != nil {
		return task.StatusChange{}, err
	}
	return change, nil
}

// DeleteTask removes the task ref.
func (a *App) DeleteTask(ctx context.Context, ref string) (task.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return task.Task{}, err
	}
	id, err := a.ResolveTaskID(ref)
	if err != nil {
		return task.Task{}, err
	}
	removed, ok := a.tasks.Delete(actor, id)
	if !ok {
		return task.Task{}, fmt.Errorf("delete %s: %w", id, task.ErrNotFound)
	}
	a.notices.Push("Task deleted.", notify.Info)
	if err := a.persist(ctx); err != nil {
		return task.Task{}, err
	}
	return removed, nil
}

// resolveFiles expands file id prefixes.
func (a *App) resolveFiles(refs []string) ([]string, error) {
	if refs == nil {
		return nil, nil
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := a.ResolveFileID(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Dashboard is the per-user overview.
type Dashboard struct {
	Pending     int           `json:"pending"`
	BAUWorkload int           `json:"bauWorkload"`
	Completed   int           `json:"completed"`
	Recent      []audit.Entry `json:"recent"`
}

// DashboardRecentLimit is the number of activity entries on the dashboard.
const DashboardRecentLimit = 5

// Dashboard counts the current user's tasks and lists the latest activity
// across the team.
func (a *App) Dashboard() (Dashboard, error) {
	a.mu.Lock()
	actor, err := a.actor()
	a.mu.Unlock()
	if err != nil {
		return Dashboard{}, err
	}
	var d Dashboard
	for _, t := range a.tasks.List() {
		if t.AssigneeID != actor {
			continue
		}
		if t.Status == task.StatusDone {
			d.Completed++
		} else {
			d.Pending++
		}
		if t.Kind == task.KindBAU {
			d.BAUWorkload++
		}
	}
	d.Recent = a.log.Query(audit.Filter{Limit: DashboardRecentLimit})
	return d, nil
}
