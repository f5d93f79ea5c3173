package leave

import (
	"fmt"
	"slices"
	"sync"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
)

// Registry owns the leave collection, newest first.
type Registry struct {
	mu      sync.RWMutex
	records []Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Load replaces the collection.
func (r *Registry) Load(records []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = slices.Clone(records)
}

// List returns every record, newest first.
func (r *Registry) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// IDs returns every leave id, for prefix resolution.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.records))
	for i, rec := range r.records {
		ids[i] = rec.ID
	}
	return ids
}

// Get returns the record with id.
func (r *Registry) Get(id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return r.records[i], nil
}

// ForUser returns the leaves owned by userID, newest first.
func (r *Registry) ForUser(userID string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Record
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// OnLeave returns the leaves that cover day d.
func (r *Registry) OnLeave(d calendar.Date) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Record
	for _, rec := range r.records {
		if rec.Window().Contains(d) {
			out = append(out, rec)
		}
	}
	return out
}

// Put stores rec, replacing the record with the same id or prepending it
// when the id is new.
func (r *Registry) Put(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(rec.ID); i >= 0 {
		r.records[i] = rec
		return
	}
	r.records = append([]Record{rec}, r.records...)
}

// Remove deletes the record with id and reports whether it existed.
func (r *Registry) Remove(id string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return Record{}, false
	}
	rec := r.records[i]
	r.records = slices.Delete(r.records, i, i+1)
	return rec, true
}

func (r *Registry) indexOf(id string) int {
	return slices.IndexFunc(r.records, func(rec Record) bool { return rec.ID == id })
}
