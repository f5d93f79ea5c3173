// Package audit records who did what to which entity. Entries are kept
// newest first, which is how the activity view and the standup report
// consume them.
package audit

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action labels written by the task, leave, file and user flows.
const (
	ActionCreateTask     = "Create Task"
	ActionUpdateTask     = "Update Task"
	ActionMoveTask       = "Move Task"
	ActionRecurringTask  = "Recurring Task"
	ActionDeleteTask     = "Delete Task"
	ActionLeaveScheduled = "Leave Scheduled"
	ActionLeaveUpdated   = "Leave Updated"
	ActionLeaveCancelled = "Leave Cancelled"
	ActionTaskReassigned = "Task Reassigned"
	ActionTaskCreated    = "Task Created"
	ActionUploadFile     = "Upload File"
	ActionUpdateFile     = "Update File"
	ActionDeleteFile     = "Delete File"
	ActionLogin          = "Login"
	ActionRegister       = "Register"
	ActionUpdateProfile  = "Update Profile"
)

// EntityType names the kind of record an entry refers to.
type EntityType string

const (
	EntityTask   EntityType = "Task"
	EntityUser   EntityType = "User"
	EntitySystem EntityType = "System"
	EntityFile   EntityType = "File"
	EntityLeave  EntityType = "Leave"
)

// Entry is one line of the activity log.
type Entry struct {
	ID         string     `json:"id" yaml:"id"`
	UserID     string     `json:"userId" yaml:"userId"`
	Action     string     `json:"action" yaml:"action"`
	Details    string     `json:"details" yaml:"details"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
	EntityID   string     `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	EntityType EntityType `json:"entityType,omitempty" yaml:"entityType,omitempty"`
}

// New builds an entry without id or timestamp; the Log fills both.
func New(userID, action, details string, entity EntityType, entityID string) Entry {
	return Entry{
		UserID:     userID,
		Action:     action,
		Details:    details,
		EntityType: entity,
		EntityID:   entityID,
	}
}

// Sink receives audit entries in the order they happen.
type Sink interface {
	Record(e Entry)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Entry) {}

// Log is an in-memory Sink.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewLog returns an empty log. A nil clock means time.Now.
func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Record prepends e, assigning an id and timestamp when missing.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.ID == "" {
		e.ID = "log-" + uuid.New().String()[:8]
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	l.entries = append([]Entry{e}, l.entries...)
}

// Entries returns a copy of all entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

// Load replaces the log contents, e.g. after reading persisted state.
func (l *Log) Load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry(nil), entries...)
}

// Filter selects entries for the activity view.
type Filter struct {
	UserID string
	Action string
	Search string
	Since  time.Time
	Limit  int
}

// Query returns entries matching f, newest first.
func (l *Log) Query(f Filter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []Entry
	for _, e := range l.entries {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Action != "" && !strings.EqualFold(e.Action, f.Action) {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Action+" "+e.Details), search) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Recorder buffers entries so a caller can inspect them before forwarding.
type Recorder struct {
	Entries []Entry
}

// Record appends e in call order.
func (r *Recorder) Record(e Entry) {
	r.Entries = append(r.Entries, e)
}
