package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// Kind distinguishes recurring business-as-usual work from one-off tasks.
type Kind string

const (
	KindBAU   Kind = "BAU"
	KindAdHoc Kind = "Ad-hoc"
)

// Frequency is the recurrence interval of a BAU task.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyBiWeekly  Frequency = "Bi-Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
)

// Status is the lifecycle state of a task. Any status may move to any other.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusDone       Status = "Done"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Task is a unit of analyst work.
type Task struct {
	ID          string        `json:"id" yaml:"id" validate:"required"`
	Title       string        `json:"title" yaml:"title" validate:"required,max=255"`
	Description string        `json:"description" yaml:"description"`
	Kind        Kind          `json:"type" yaml:"type" validate:"required,oneof=BAU Ad-hoc"`
	Frequency   Frequency     `json:"frequency,omitempty" yaml:"frequency,omitempty" validate:"omitempty,oneof=Daily Weekly Bi-Weekly Monthly Quarterly"`
	Status      Status        `json:"status" yaml:"status" validate:"required,oneof='To Do' 'In Progress' 'In Review' Done"`
	Priority    Priority      `json:"priority" yaml:"priority" validate:"required,oneof=Low Medium High Critical"`
	AssigneeID  string        `json:"assigneeId" yaml:"assigneeId"`
	CreatorID   string        `json:"creatorId" yaml:"creatorId"`
	DueDate     calendar.Date `json:"dueDate" yaml:"dueDate"`
	DueTime     string        `json:"dueTime,omitempty" yaml:"dueTime,omitempty" validate:"omitempty,datetime=15:04"`
	CreatedAt   time.Time     `json:"createdAt" yaml:"createdAt"`
	FileIDs     []string      `json:"fileIds,omitempty" yaml:"fileIds,omitempty"`
}

// Recurring reports whether completing t spawns a next occurrence.
func (t Task) Recurring() bool {
	return t.Kind == KindBAU && t.Frequency != ""
}

// Clone returns a copy of t that shares no slices with it.
func (t Task) Clone() Task {
	c := t
	if t.FileIDs != nil {
		c.FileIDs = append([]string(nil), t.FileIDs...)
	}
	return c
}

// Validate checks field constraints and the kind/frequency invariant.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title required")
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("due date required")
	}
	if t.Kind != KindBAU && t.Frequency != "" {
		return fmt.Errorf("frequency is only allowed on %s tasks", KindBAU)
	}
	return util.ValidateStruct(t)
}

// ParseStatus accepts the display form ("In Progress") or a compact form
// ("in-progress", "inprogress", "todo", "review").
func ParseStatus(s string) (Status, error) {
	switch normalize(s) {
	case "todo":
		return StatusToDo, nil
	case "inprogress", "doing":
		return StatusInProgress, nil
	case "inreview", "review":
		return StatusInReview, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q (want To Do, In Progress, In Review, Done)", s)
}

// ParseKind accepts "BAU" or "Ad-hoc" in any case.
func ParseKind(s string) (Kind, error) {
	switch normalize(s) {
	case "bau":
		return KindBAU, nil
	case "adhoc":
		return KindAdHoc, nil
	}
	return "", fmt.Errorf("unknown task type %q (want BAU or Ad-hoc)", s)
}

// ParseFrequency accepts the display form in any case; empty input means none.
func ParseFrequency(s string) (Frequency, error) {
	switch normalize(s) {
	case "":
		return "", nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "biweekly", "fortnightly":
		return FrequencyBiWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	case "quarterly":
		return FrequencyQuarterly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// ParsePriority accepts the display form in any case.
func ParsePriority(s string) (Priority, error) {
	switch normalize(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Rank orders priorities from Critical (0) to Low (3).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
