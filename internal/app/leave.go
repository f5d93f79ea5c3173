package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// LeaveRequest is a leave to book.
type LeaveRequest struct {
	Start  string
	End    string
	Type   leave.Type
	Reason string
}

// LeaveChanges edits a booked leave; nil fields are left unchanged.
type LeaveChanges struct {
	Start  *string
	End    *string
	Type   *leave.Type
	Reason *string
}

// Conflicts lists the current user's work that falls inside [start, end],
// including projected occurrences of recurring tasks. Blank dates yield no
// conflicts.
func (a *App) Conflicts(start, end string) ([]leave.Conflict, error) {
	a.mu.Lock()
	actor, err := a.actor()
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return leave.FindConflictsInput(start, end, a.tasks.List(), actor, a.maxIterations)
}

// LeaveConflicts previews the conflicts of a booked leave as if it were
// moved to changes, for its owner.
func (a *App) LeaveConflicts(ref string, changes LeaveChanges) (leave.Record, []leave.Conflict, error) {
	a.mu.Lock()
	actor, err := a.actor()
	a.mu.Unlock()
	if err != nil {
		return leave.Record{}, nil, err
	}
	rec, err := a.ownLeave(ref, actor)
	if err != nil {
		return leave.Record{}, nil, err
	}
	rec, err = changes.apply(rec)
	if err != nil {
		return leave.Record{}, nil, err
	}
	return rec, leave.FindConflicts(rec.Window(), a.tasks.List(), rec.UserID, a.maxIterations), nil
}

// BookLeave books a new leave for the current user and applies the coverage
// decisions in one step.
func (a *App) BookLeave(ctx context.Context, req LeaveRequest, decisions []leave.Decision) (leave.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return leave.Result{}, err
	}
	w, ok, err := leave.ParseWindow(req.Start, req.End)
	if err != nil {
		return leave.Result{}, err
	}
	if !ok {
		return leave.Result{}, fmt.Errorf("%w: start and end dates are required", leave.ErrInvalidWindow)
	}
	rec := leave.Record{
		UserID:    actor,
		StartDate: w.Start,
		EndDate:   w.End,
		Type:      req.Type,
		Reason:    req.Reason,
	}
	return a.commitLeave(ctx, actor, rec, decisions)
}

// EditLeave moves or relabels a booked leave and applies the coverage
// decisions for its new window.
func (a *App) EditLeave(ctx context.Context, ref string, changes LeaveChanges, decisions []leave.Decision) (leave.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return leave.Result{}, err
	}
	rec, err := a.ownLeave(ref, actor)
	if err != nil {
		return leave.Result{}, err
	}
	rec, err = changes.apply(rec)
	if err != nil {
		return leave.Result{}, err
	}
	return a.commitLeave(ctx, actor, rec, decisions)
}

// commitLeave runs the coverage commit and merges its deltas. Callers hold a.mu.
func (a *App) commitLeave(ctx context.Context, actor string, rec leave.Record, decisions []leave.Decision) (leave.Result, error) {
	decisions, err := a.resolveDecisions(decisions)
	if err != nil {
		return leave.Result{}, err
	}
	res, err := leave.Commit(leave.Request{
		Record:     rec,
		Decisions:  decisions,
		Tasks:      a.tasks.List(),
		ActorID:       actor,
		MaxIterations: a.maxIterations,
		UserName:      a.users.Name,
		Now:           a.now,
		NewTaskID:     a.newTaskID,
		NewLeaveID:    a.newLeaveID,
	})
	if err != nil {
		return leave.Result{}, err
	}

	a.leaves.Put(res.Record)
	a.tasks.Merge(res.UpdatedTasks, res.CreatedTasks)
	for _, e := range res.LogEntries {
		a.log.Record(e)
	}
	for _, skipped := range res.Skipped {
		slog.Warn("coverage decision skipped", "leave", res.Record.ID, "error", skipped)
	}
	a.notices.Push(res.Summary, notify.Success)

	if err := a.persist(ctx); err != nil {
		return leave.Result{}, err
	}
	return res, nil
}

// resolveDecisions turns assignee references into user ids and task
// prefixes into task ids. A task reference that matches nothing is passed on
// unchanged for Commit to report.
func (a *App) resolveDecisions(decisions []leave.Decision) ([]leave.Decision, error) {
	out := make([]leave.Decision, 0, len(decisions))
	for _, d := range decisions {
		if d.AssigneeID == "" || d.Target == nil {
			continue
		}
		target, err := a.resolveTarget(d.Target)
		if err != nil {
			return nil, fmt.Errorf("assign %s: %w", d.Target.Key(), err)
		}
		u, err := a.users.Resolve(d.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("assign %s: %w", d.Target.Key(), err)
		}
		out = append(out, leave.Decision{Target: target, AssigneeID: u.ID})
	}
	return out, nil
}

func (a *App) resolveTarget(target leave.Target) (leave.Target, error) {
	resolve := func(ref string) (string, error) {
		id, err := a.ResolveTaskID(ref)
		if errors.Is(err, util.ErrNotFound) {
			return ref, nil
		}
		return id, err
	}
	switch t := target.(type) {
	case leave.RealTarget:
		id, err := resolve(t.TaskID)
		return leave.RealTarget{TaskID: id}, err
	case leave.VirtualTarget:
		id, err := resolve(t.SourceTaskID)
		return leave.VirtualTarget{SourceTaskID: id, DueDate: t.DueDate}, err
	}
	return target, nil
}

// CancelLeave removes a booked leave. Tasks handed over for it stay with
// their new owners.
func (a *App) CancelLeave(ctx context.Context, ref string) (leave.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return leave.Record{}, err
	}
	owned, err := a.ownLeave(ref, actor)
	if err != nil {
		return leave.Record{}, err
	}
	rec, ok := a.leaves.Remove(owned.ID)
	if !ok {
		return leave.Record{}, fmt.Errorf("cancel %s: %w", owned.ID, leave.ErrNotFound)
	}
	a.log.Record(audit.New(actor, audit.ActionLeaveCancelled, "Cancelled leave request", audit.EntityLeave, rec.ID))
	a.notices.Push("Leave request cancelled.", notify.Info)
	if err := a.persist(ctx); err != nil {
		return leave.Record{}, err
	}
	return rec, nil
}

// Leave returns the leave with id or unique prefix ref.
func (a *App) Leave(ref string) (leave.Record, error) {
	id, err := a.ResolveLeaveID(ref)
	if err != nil {
		return leave.Record{}, err
	}
	return a.leaves.Get(id)
}

// ownLeave returns the leave ref if it belongs to actor.
func (a *App) ownLeave(ref, actor string) (leave.Record, error) {
	rec, err := a.Leave(ref)
	if err != nil {
		return leave.Record{}, err
	}
	if rec.UserID != actor {
		return leave.Record{}, fmt.Errorf("%s: %w", rec.ID, leave.ErrNotOwner)
	}
	return rec, nil
}

// Leaves lists leaves by start date, latest first. mine restricts the list
// to the current user.
func (a *App) Leaves(mine bool) ([]leave.Record, error) {
	var out []leave.Record
	if mine {
		a.mu.Lock()
		actor, err := a.actor()
		a.mu.Unlock()
		if err != nil {
			return nil, err
		}
		out = a.leaves.ForUser(actor)
	} else {
		out = a.leaves.List()
	}
	slices.SortStableFunc(out, func(x, y leave.Record) int {
		return y.StartDate.Compare(x.StartDate)
	})
	return out, nil
}

// Away lists who is on leave on day d.
func (a *App) Away(d calendar.Date) []leave.Record {
	return a.leaves.OnLeave(d)
}

func (c LeaveChanges) apply(rec leave.Record) (leave.Record, error) {
	if c.Start != nil {
		d, err := calendar.Parse(*c.Start)
		if err != nil {
			return leave.Record{}, fmt.Errorf("%w: start: %v", leave.ErrInvalidWindow, err)
		}
		rec.StartDate = d
	}
	if c.End != nil {
		d, err := calendar.Parse(*c.End)
		if err != nil {
			return leave.Record{}, fmt.Errorf("%w: end: %v", leave.ErrInvalidWindow, err)
		}
		rec.EndDate = d
	}
	if c.Type != nil {
		rec.Type = *c.Type
	}
	if c.Reason != nil {
		rec.Reason = *c.Reason
	}
	return rec, nil
}
