package task

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
)

// ErrNotFound is returned when a task id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// Store owns the authoritative task collection. Tasks are kept newest first.
// Every mutating call returns the records it changed so the caller can
// persist the whole collection afterwards.
type Store struct {
	mu    sync.RWMutex
	tasks []Task
	sink  audit.Sink
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the "task-xxxxxxxx" id scheme.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewID returns a fresh task id.
func NewID() string {
	return "task-" + uuid.New().String()[:8]
}

// NewStore returns an empty store writing audit entries to sink.
func NewStore(sink audit.Sink, opts ...Option) *Store {
	if sink == nil {
		sink = audit.Discard
	}
	s := &Store{sink: sink, now: time.Now, newID: NewID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection, e.g. with persisted state.
func (s *Store) Load(tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneAll(tasks)
}

// List returns a copy of every task, newest first.
func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.tasks[i].Clone(), nil
}

// IDs returns every task id, for prefix resolution.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return ids
}

// Create stores a new task built from t. The id and creation time are
// always assigned here; status defaults to To Do and priority to Medium.
func (s *Store) Create(actorID string, t Task) (Task, error) {
	t = t.Clone()
	t.ID = s.newID()
	t.CreatedAt = s.now()
	if t.Status == "" {
		t.Status = StatusToDo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CreatorID == "" {
		t.CreatorID = actorID
	}
	if err := t.Validate(); err != nil {
		return Task{}, fmt.Errorf("invalid task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append([]Task{t}, s.tasks...)
	s.mu.Unlock()

	s.sink.Record(audit.New(actorID, audit.ActionCreateTask, "Created task: "+t.Title, audit.EntityTask, t.ID))
	return t.Clone(), nil
}

// Patch carries the fields of an update; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Kind        *Kind
	Frequency   *Frequency
	Status      *Status
	Priority    *Priority
	AssigneeID  *string
	DueDate     *calendar.Date
	DueTime     *string
	FileIDs     *[]string
}

func (p Patch) apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
		if t.Kind != KindBAU {
			t.Frequency = ""
		}
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.FileIDs != nil {
		t.FileIDs = append([]string(nil), (*p.FileIDs)...)
	}
}

// Update merges p into the task with id. A status set through Update does
// not trigger recurrence; use ChangeStatus for that.
func (s *Store) Update(actorID, id string, p Patch) (Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	updated := s.tasks[i].Clone()
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		s.mu.Unlock()
		return Task{}, fmt.Errorf("invalid task: %w", err)
	}
	s.tasks[i] = updated
	s.mu.Unlock()

	s.sink.Record(audit.New(actorID, audit.ActionUpdateTask, "Updated task: "+updated.Title, audit.EntityTask, id))
	return updated.Clone(), nil
}

// StatusChange is the result of ChangeStatus.
type StatusChange struct {
	Task    Task
	Spawned *Task
}

// ChangeStatus moves a task to status. Any transition is allowed. Moving a
// recurring task to Done from any other status spawns its next occurrence,
// unless a BAU task with the same title already sits on that date.
func (s *Store) ChangeStatus(actorID, id string, status Status) (StatusChange, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return StatusChange{}, fmt.Errorf("change status of %s: %w", id, ErrNotFound)
	}
	prev := s.tasks[i]
	s.tasks[i].Status = status
	result := StatusChange{Task: s.tasks[i].Clone()}

	if prev.Recurring() && status == StatusDone && prev.Status != StatusDone {
		next := NextOccurrence(prev)
		if !s.hasOccurrence(prev.Title, next) {
			spawned := prev.Clone()
			spawned.ID = s.newID()
			spawned.Status = StatusToDo
			spawned.DueDate = next
			spawned.CreatedAt = s.now()
			s.tasks = append([]Task{spawned}, s.tasks...)
			c := spawned.Clone()
			result.Spawned = &c
		}
	}
	s.mu.Unlock()

	if result.Spawned != nil {
		s.sink.Record(audit.New(actorID, audit.ActionRecurringTask,
			fmt.Sprintf("Generated next occurrence of %q for %s", prev.Title, result.Spawned.DueDate),
			audit.EntityTask, result.Spawned.ID))
	}
	s.sink.Record(audit.New(actorID, audit.ActionMoveTask,
		fmt.Sprintf("Moved task %q to %s", prev.Title, status), audit.EntityTask, id))
	return result, nil
}

// hasOccurrence reports whether a BAU task titled title is due on d.
// Callers hold s.mu.
func (s *Store) hasOccurrence(title string, d calendar.Date) bool {
	return slices.ContainsFunc(s.tasks, func(t Task) bool {
		return t.Title == title && t.DueDate.Equal(d) && t.Kind == KindBAU
	})
}

// Delete removes the task with id. Deleting an absent id is a no-op and
// reports false.
func (s *Store) Delete(actorID, id string) (Task, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, false
	}
	removed := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.mu.Unlock()

	s.sink.Record(audit.New(actorID, audit.ActionDeleteTask, "Deleted task: "+removed.Title, audit.EntityTask, id))
	return removed, true
}

// DetachFile drops fileID from every task's attachments and returns the
// tasks that changed.
func (s *Store) DetachFile(fileID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []Task
	for i := range s.tasks {
		if !slices.Contains(s.tasks[i].FileIDs, fileID) {
			continue
		}
		s.tasks[i].FileIDs = slices.DeleteFunc(s.tasks[i].FileIDs, func(id string) bool { return id == fileID })
		changed = append(changed, s.tasks[i].Clone())
	}
	return changed
}

// Merge applies the deltas of a coverage commit in one step: updated tasks
// replace their stored versions by id and created tasks are prepended in
// the order given, so the last one created ends up first. Updated tasks
// that no longer exist are ignored.
func (s *Store) Merge(updated, created []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updated {
		if i := s.indexOf(u.ID); i >= 0 {
			s.tasks[i] = u.Clone()
		}
	}
	for _, c := range created {
		s.tasks = append([]Task{c.Clone()}, s.tasks...)
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func cloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
