// Package notify keeps the user-facing notification feed.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the tone of a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notification is a message shown to the current user.
type Notification struct {
	ID        string    `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Type      Level     `json:"type" yaml:"type"`
	Read      bool      `json:"read" yaml:"read"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Feed holds notifications newest first.
type Feed struct {
	mu    sync.RWMutex
	items []Notification
	now   func() time.Time
}

// NewFeed returns an empty feed. A nil clock means time.Now.
func NewFeed(now func() time.Time) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{now: now}
}

// Push adds an unread notification and returns it.
func (f *Feed) Push(message string, level Level) Notification {
	if level == "" {
		level = Info
	}
	n := Notification{
		ID:        "note-" + uuid.New().String()[:8],
		Message:   message,
		Type:      level,
		Timestamp: f.now(),
	}
	f.mu.Lock()
	f.items = append([]Notification{n}, f.items...)
	f.mu.Unlock()
	return n
}

// List returns every notification, newest first.
func (f *Feed) List() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Notification(nil), f.items...)
}

// Unread counts notifications not yet read.
func (f *Feed) Unread() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, it := range f.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkRead marks one notification read and reports whether it existed.
func (f *Feed) MarkRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].Read = true
	}
}

// Clear drops all notifications.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}

// Load replaces the feed contents.
func (f *Feed) Load(items []Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]Notification(nil), items...)
}
