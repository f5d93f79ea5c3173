// Package leave books time off and works out which tasks need cover while
// the owner is away, including future occurrences of recurring tasks that
// have not been created yet.
package leave

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

var (
	// ErrNotFound is returned when a leave id does not exist.
	ErrNotFound = errors.New("leave not found")
	// ErrInvalidWindow is returned for unparseable or inverted leave dates.
	ErrInvalidWindow = errors.New("invalid leave window")
	// ErrSourceTaskNotFound marks a coverage decision whose source task has
	// disappeared. Commit skips such decisions rather than failing.
	ErrSourceTaskNotFound = errors.New("source task not found")
	// ErrNotConflict marks a coverage decision for a task that is not the
	// leave owner's or an occurrence that does not fall inside the leave.
	ErrNotConflict = errors.New("not a conflict of this leave")
	// ErrNotOwner is returned when a user edits or cancels someone else's leave.
	ErrNotOwner = errors.New("leave belongs to another user")
)

// Type is the reason category of a leave.
type Type string

const (
	TypeVacation Type = "Vacation"
	TypeSick     Type = "Sick Leave"
	TypePersonal Type = "Personal"
	TypeOther    Type = "Other"
)

// ParseType accepts the display form in any case, plus "sick".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vacation", "":
		return TypeVacation, nil
	case "sick", "sick leave", "sick-leave":
		return TypeSick, nil
	case "personal":
		return TypePersonal, nil
	case "other":
		return TypeOther, nil
	}
	return "", fmt.Errorf("unknown leave type %q (want Vacation, Sick Leave, Personal, Other)", s)
}

// Status of a leave. New and edited leaves are always Approved.
type Status string

const (
	StatusApproved Status = "Approved"
	StatusPending  Status = "Pending"
)

// Record is a booked leave. StartDate and EndDate are inclusive.
type Record struct {
	ID        string        `json:"id" yaml:"id"`
	UserID    string        `json:"userId" yaml:"userId" validate:"required"`
	StartDate calendar.Date `json:"startDate" yaml:"startDate"`
	EndDate   calendar.Date `json:"endDate" yaml:"endDate"`
	Type      Type          `json:"type" yaml:"type" validate:"required,oneof=Vacation 'Sick Leave' Personal Other"`
	Reason    string        `json:"reason" yaml:"reason"`
	Status    Status        `json:"status" yaml:"status" validate:"omitempty,oneof=Approved Pending"`
}

// NewID returns a fresh leave id.
func NewID() string {
	return "leave-" + uuid.New().String()[:8]
}

// Window returns the leave's inclusive date range.
func (r Record) Window() calendar.Window {
	return calendar.Window{Start: r.StartDate, End: r.EndDate}
}

// Days is the inclusive length of the leave.
func (r Record) Days() int {
	return r.Window().Days()
}

// Validate checks the window and field constraints.
func (r *Record) Validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidWindow)
	}
	if r.Window().Empty() {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidWindow, r.EndDate, r.StartDate)
	}
	return util.ValidateStruct(r)
}

// ParseWindow reads a candidate window from user input. When either side is
// blank it reports ok=false and no error, meaning there is nothing to check
// yet. An unparseable date yields ErrInvalidWindow.
func ParseWindow(start, end string) (w calendar.Window, ok bool, err error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return calendar.Window{}, false, nil
	}
	s, err := calendar.Parse(start)
	if err != nil {
		return calendar.Window{}, false, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
	}
	e, err := calendar.Parse(end)
	if err != nil {
		return calendar.Window{}, false, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
	}
	return calendar.Window{Start: s, End: e}, true, nil
}
