package leave

import (
	"fmt"
	"time"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

// Decision picks who covers one conflict.
type Decision struct {
	Target     Target
	AssigneeID string
}

// Request is the input to Commit.
type Request struct {
	// Record is the leave to book. An empty ID books a new leave; otherwise
	// the record replaces the stored one with that ID.
	Record    Record
	Decisions []Decision
	// Tasks is the snapshot every decision is resolved against.
	Tasks   []task.Task
	ActorID string
	// MaxIterations bounds the projection used to check virtual targets.
	MaxIterations int

	UserName   func(id string) string
	Now        func() time.Time
	NewTaskID  func() string
	NewLeaveID func() string
}

// Result carries the deltas of a commit for the caller to merge and persist.
type Result struct {
	Record       Record
	Created      bool
	UpdatedTasks []task.Task
	CreatedTasks []task.Task
	// LogEntries are in the order the changes were applied.
	LogEntries []audit.Entry
	// Skipped holds one error per decision that could not be applied.
	Skipped []error
	Summary string
}

// Changes is the number of tasks reassigned or created.
func (r Result) Changes() int {
	return len(r.UpdatedTasks) + len(r.CreatedTasks)
}

// Commit books or updates a leave and applies the coverage decisions against
// req.Tasks. The leave record comes first, then reassignments of existing
// tasks, then creation of tasks for projected occurrences. When several
// decisions name the same target only the last counts, and it is ignored if
// it hands the task back to its current owner. A decision whose task has
// gone, or that names work outside the leave, is skipped and reported in
// Result.Skipped; the rest still apply.
// Commit does not touch any store.
func Commit(req Request) (Result, error) {
	req.defaults()

	rec := req.Record
	rec.Status = StatusApproved
	if rec.Type == "" {
		rec.Type = TypeVacation
	}
	if err := rec.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Created: rec.ID == ""}
	if res.Created {
		rec.ID = req.NewLeaveID()
		res.LogEntries = append(res.LogEntries, audit.New(req.ActorID, audit.ActionLeaveScheduled,
			fmt.Sprintf("Scheduled %s from %s to %s", rec.Type, rec.StartDate, rec.EndDate), audit.EntityLeave, rec.ID))
	} else {
		res.LogEntries = append(res.LogEntries, audit.New(req.ActorID, audit.ActionLeaveUpdated,
			"Updated leave "+rec.ID, audit.EntityLeave, rec.ID))
	}
	res.Record = rec

	byID := make(map[string]task.Task, len(req.Tasks))
	for _, t := range req.Tasks {
		byID[t.ID] = t
	}

	reassign, create := partition(req.Decisions, rec.UserID, byID)

	reason := "due to leave."
	if !res.Created {
		reason = "due to leave update."
	}
	for _, d := range reassign {
		id := d.Target.(RealTarget).TaskID
		t, ok := byID[id]
		if !ok {
			res.Skipped = append(res.Skipped, fmt.Errorf("reassign %s: %w", id, task.ErrNotFound))
			continue
		}
		if t.AssigneeID != rec.UserID {
			res.Skipped = append(res.Skipped, fmt.Errorf("reassign %s: %w", id, ErrNotConflict))
			continue
		}
		t = t.Clone()
		t.AssigneeID = d.AssigneeID
		res.UpdatedTasks = append(res.UpdatedTasks, t)
		res.LogEntries = append(res.LogEntries, audit.New(req.ActorID, audit.ActionTaskReassigned,
			fmt.Sprintf("Reassigned %q to %s %s", t.Title, req.UserName(d.AssigneeID), reason), audit.EntityTask, t.ID))
	}

	for _, d := range create {
		v := d.Target.(VirtualTarget)
		src, ok := byID[v.SourceTaskID]
		if !ok {
			res.Skipped = append(res.Skipped, fmt.Errorf("cover %s: %w", v.Key(), ErrSourceTaskNotFound))
			continue
		}
		if src.AssigneeID != rec.UserID || !projects(src, rec, v.DueDate, req.MaxIterations) {
			res.Skipped = append(res.Skipped, fmt.Errorf("cover %s: %w", v.Key(), ErrNotConflict))
			continue
		}
		t := src.Clone()
		t.ID = req.NewTaskID()
		t.DueDate = v.DueDate
		t.AssigneeID = d.AssigneeID
		t.Status = task.StatusToDo
		t.CreatedAt = req.Now()
		res.CreatedTasks = append(res.CreatedTasks, t)
		res.LogEntries = append(res.LogEntries, audit.New(req.ActorID, audit.ActionTaskCreated,
			fmt.Sprintf("Created future task %q for coverage by %s.", t.Title, req.UserName(d.AssigneeID)), audit.EntityTask, t.ID))
	}

	res.Summary = summary(res.Created, res.Changes())
	return res, nil
}

// partition merges decisions per target, the last one winning in the
// position of the first, then drops no-ops and splits the rest by target
// kind.
func partition(decisions []Decision, ownerID string, tasks map[string]task.Task) (reassign, create []Decision) {
	index := map[string]int{}
	var merged []Decision
	for _, d := range decisions {
		if d.Target == nil {
			continue
		}
		key := d.Target.Key()
		if i, seen := index[key]; seen {
			merged[i] = d
			continue
		}
		index[key] = len(merged)
		merged = append(merged, d)
	}
	for _, d := range merged {
		if d.AssigneeID == "" || d.AssigneeID == ownerID {
			continue
		}
		switch target := d.Target.(type) {
		case RealTarget:
			if t, found := tasks[target.TaskID]; found && t.AssigneeID == d.AssigneeID {
				continue
			}
			reassign = append(reassign, d)
		case VirtualTarget:
			create = append(create, d)
		}
	}
	return reassign, create
}

// projects reports whether d is a projected occurrence of src inside the
// leave.
func projects(src task.Task, rec Record, d calendar.Date, maxIterations int) bool {
	for occ := range task.ProjectFutureOccurrences(src, rec.StartDate, rec.EndDate, maxIterations) {
		if occ.Equal(d) {
			return true
		}
	}
	return false
}

func summary(created bool, changes int) string {
	switch {
	case created && changes > 0:
		return fmt.Sprintf("Leave booked. %d tasks reassigned/created for coverage.", changes)
	case created:
		return "Leave booked successfully."
	case changes > 0:
		return fmt.Sprintf("Leave updated. %d tasks reassigned/created.", changes)
	default:
		return "Leave updated successfully."
	}
}

func (r *Request) defaults() {
	if r.UserName == nil {
		r.UserName = func(string) string { return "Unknown" }
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.NewTaskID == nil {
		r.NewTaskID = task.NewID
	}
	if r.NewLeaveID == nil {
		r.NewLeaveID = NewID
	}
}
