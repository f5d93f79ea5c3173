package leave

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

const virtualPrefix = "virtual_"

// Target identifies what a conflict entry or coverage decision refers to:
// either an existing task or a projected occurrence of one.
type Target interface {
	// Key is a stable string form, used as a map key and on the command line.
	Key() string
	isTarget()
}

// RealTarget is an existing task.
type RealTarget struct {
	TaskID string
}

func (t RealTarget) Key() string {
	return t.TaskID
}

func (RealTarget) isTarget() {}

// VirtualTarget is an occurrence of SourceTaskID on DueDate that does not
// exist yet.
type VirtualTarget struct {
	SourceTaskID string
	DueDate      calendar.Date
}

func (t VirtualTarget) Key() string {
	return virtualPrefix + t.SourceTaskID + "_" + t.DueDate.String()
}

func (VirtualTarget) isTarget() {}

// ParseTargetKey turns a key produced by Target.Key back into a Target.
func ParseTargetKey(key string) (Target, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("empty task key")
	}
	rest, ok := strings.CutPrefix(key, virtualPrefix)
	if !ok {
		return RealTarget{TaskID: key}, nil
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return nil, fmt.Errorf("malformed virtual key %q", key)
	}
	d, err := calendar.Parse(rest[i+1:])
	if err != nil {
		return nil, fmt.Errorf("malformed virtual key %q: %w", key, err)
	}
	return VirtualTarget{SourceTaskID: rest[:i], DueDate: d}, nil
}

// Conflict is a task due while its owner is away. For a virtual conflict
// Task is the source task projected onto DueDate, with its ID replaced by
// the target key; it must never be stored as is.
type Conflict struct {
	Target  Target
	Task    task.Task
	DueDate calendar.Date
}

// Virtual reports whether the conflict is a projected occurrence.
func (c Conflict) Virtual() bool {
	_, ok := c.Target.(VirtualTarget)
	return ok
}

// SourceTaskID is the id of the stored task behind the conflict.
func (c Conflict) SourceTaskID() string {
	switch t := c.Target.(type) {
	case VirtualTarget:
		return t.SourceTaskID
	case RealTarget:
		return t.TaskID
	}
	return ""
}

// FindConflicts lists the open tasks of ownerID due inside w, plus the
// projected future occurrences of their recurring ones, sorted by due date.
// maxIterations bounds the projection per task. It never modifies tasks.
func FindConflicts(w calendar.Window, tasks []task.Task, ownerID string, maxIterations int) []Conflict {
	if w.Empty() {
		return nil
	}
	var out []Conflict
	for _, t := range tasks {
		if t.AssigneeID != ownerID || t.Status == task.StatusDone {
			continue
		}
		if !t.DueDate.IsZero() && w.Contains(t.DueDate) {
			out = append(out, Conflict{
				Target:  RealTarget{TaskID: t.ID},
				Task:    t.Clone(),
				DueDate: t.DueDate,
			})
		}
		if !t.Recurring() {
			continue
		}
		for d := range task.ProjectFutureOccurrences(t, w.Start, w.End, maxIterations) {
			target := VirtualTarget{SourceTaskID: t.ID, DueDate: d}
			projected := t.Clone()
			projected.ID = target.Key()
			projected.DueDate = d
			out = append(out, Conflict{Target: target, Task: projected, DueDate: d})
		}
	}
	slices.SortStableFunc(out, func(a, b Conflict) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

// FindConflictsInput is FindConflicts over raw date strings. A blank start
// or end yields no conflicts; an unparseable one yields ErrInvalidWindow.
func FindConflictsInput(start, end string, tasks []task.Task, ownerID string, maxIterations int) ([]Conflict, error) {
	w, ok, err := ParseWindow(start, end)
	if err != nil || !ok {
		return nil, err
	}
	return FindConflicts(w, tasks, ownerID, maxIterations), nil
}
