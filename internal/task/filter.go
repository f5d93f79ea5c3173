package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// View splits the board into open and finished work.
type View string

const (
	ViewOngoing   View = "ongoing"
	ViewCompleted View = "completed"
	ViewAll       View = "all"
)

// SortField is a key tasks can be ordered by.
type SortField string

const (
	SortByDueDate   SortField = "dueDate"
	SortByCreatedAt SortField = "createdAt"
	SortByPriority  SortField = "priority"
)

// ParseSortField accepts the field names in any case, plus "due" and "created".
func ParseSortField(s string) (SortField, error) {
	switch normalize(s) {
	case "", "duedate", "due":
		return SortByDueDate, nil
	case "createdat", "created":
		return SortByCreatedAt, nil
	case "priority":
		return SortByPriority, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want dueDate, createdAt, priority)", s)
}

// Query filters and orders a task list. Zero-valued fields match everything
// except View, which defaults to ongoing.
type Query struct {
	View       View
	Search     string
	Status     Status
	Priority   Priority
	Kind       Kind
	AssigneeID string
	SortBy     SortField
	Desc       bool
}

// Match reports whether t passes every filter in q.
func (q Query) Match(t Task) bool {
	switch q.View {
	case ViewOngoing, "":
		if t.Status == StatusDone {
			return false
		}
	case ViewCompleted:
		if t.Status != StatusDone {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	if q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	if q.Kind != "" && t.Kind != q.Kind {
		return false
	}
	if q.AssigneeID != "" && t.AssigneeID != q.AssigneeID {
		return false
	}
	return true
}

// Apply returns the tasks matching q in q's order. Ties keep input order.
func (q Query) Apply(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		var c int
		switch q.SortBy {
		case SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case SortByPriority:
			c = cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		default:
			c = a.DueDate.Compare(b.DueDate)
		}
		if q.Desc {
			return -c
		}
		return c
	})
	return out
}
