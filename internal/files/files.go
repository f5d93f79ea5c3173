// Package files is the shared repository of links and documents that tasks
// can reference.
package files

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// ErrNotFound is returned for an unknown file id.
var ErrNotFound = errors.New("file not found")

// Type is the kind of resource.
type Type string

const (
	TypeLink      Type = "Link"
	TypeDocument  Type = "Document"
	TypeImage     Type = "Image"
	TypeDashboard Type = "Dashboard"
	TypeReport    Type = "Report"
)

// Item is one entry in the repository. URL may also hold a data URI.
type Item struct {
	ID         string    `json:"id" yaml:"id" validate:"required"`
	Name       string    `json:"name" yaml:"name" validate:"required,max=255"`
	URL        string    `json:"url" yaml:"url" validate:"required"`
	Type       Type      `json:"type" yaml:"type" validate:"required,oneof=Link Document Image Dashboard Report"`
	UploadedBy string    `json:"uploadedBy" yaml:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// ParseType accepts a type name in any case.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{TypeLink, TypeDocument, TypeImage, TypeDashboard, TypeReport} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown file type %q (want Link, Document, Image, Dashboard, Report)", s)
}

// GuessType infers a type from a URL: data URIs and image extensions are
// images, office and PDF extensions documents, anything else a link.
func GuessType(url string) Type {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "data:image/") {
		return TypeImage
	}
	if strings.HasPrefix(lower, "data:") {
		return TypeDocument
	}
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	switch path.Ext(lower) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		return TypeImage
	case ".pdf", ".doc", ".docx", ".txt", ".md", ".xlsx", ".csv", ".pptx":
		return TypeDocument
	}
	return TypeLink
}

// Repository holds file items in the order they were added.
type Repository struct {
	mu    sync.RWMutex
	items []Item
	sink  audit.Sink
	now   func() time.Time
}

// NewRepository returns an empty repository logging to sink.
func NewRepository(sink audit.Sink, now func() time.Time) *Repository {
	if sink == nil {
		sink = audit.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &Repository{sink: sink, now: now}
}

// Load replaces the repository contents.
func (r *Repository) Load(items []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = slices.Clone(items)
}

// List returns every item.
func (r *Repository) List() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// IDs returns every file id, for prefix resolution.
func (r *Repository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.items))
	for i, it := range r.items {
		ids[i] = it.ID
	}
	return ids
}

// Get returns the item with id.
func (r *Repository) Get(id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	return Item{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
}

// Search returns items whose name contains query, optionally of one type.
func (r *Repository) Search(query string, typ Type) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Item
	for _, it := range r.items {
		if typ != "" && it.Type != typ {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Add stores a new item uploaded by actorID. A missing type is guessed from
// the URL.
func (r *Repository) Add(actorID string, it Item) (Item, error) {
	it.ID = "file-" + uuid.New().String()[:8]
	it.CreatedAt = r.now()
	it.UploadedBy = actorID
	if it.Type == "" {
		it.Type = GuessType(it.URL)
	}
	if err := util.ValidateStruct(&it); err != nil {
		return Item{}, fmt.Errorf("invalid file: %w", err)
	}
	r.mu.Lock()
	r.items = append(r.items, it)
	r.mu.Unlock()

	r.sink.Record(audit.New(actorID, audit.ActionUploadFile, "Added file/link: "+it.Name, audit.EntityFile, it.ID))
	return it, nil
}

// Update replaces the name, URL and type of an existing item.
func (r *Repository) Update(actorID string, it Item) (Item, error) {
	r.mu.Lock()
	i := r.indexOf(it.ID)
	if i < 0 {
		r.mu.Unlock()
		return Item{}, fmt.Errorf("update %s: %w", it.ID, ErrNotFound)
	}
	updated := r.items[i]
	updated.Name, updated.URL = it.Name, it.URL
	if it.Type != "" {
		updated.Type = it.Type
	}
	if err := util.ValidateStruct(&updated); err != nil {
		r.mu.Unlock()
		return Item{}, fmt.Errorf("invalid file: %w", err)
	}
	r.items[i] = updated
	r.mu.Unlock()

	r.sink.Record(audit.New(actorID, audit.ActionUpdateFile, "Updated file/link: "+updated.Name, audit.EntityFile, updated.ID))
	return updated, nil
}

// Delete removes an item. Callers must also detach it from tasks.
func (r *Repository) Delete(actorID, id string) (Item, bool) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return Item{}, false
	}
	removed := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	r.mu.Unlock()

	r.sink.Record(audit.New(actorID, audit.ActionDeleteFile, "Removed file from repository", audit.EntityFile, id))
	return removed, true
}

func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.items, func(it Item) bool { return it.ID == id })
}
