package app

import (
	"context"
	"fmt"

	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
)

// AddFile adds a link or document to the shared repository.
func (a *App) AddFile(ctx context.Context, it files.Item) (files.Item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return files.Item{}, err
	}
	added, err := a.files.Add(actor, it)
	if err != nil {
		return files.Item{}, err
	}
	a.notices.Push("Resource added to repository.", notify.Success)
	if err := a.persist(ctx); err != nil {
		return files.Item{}, err
	}
	return added, nil
}

// EditFile replaces the name, URL and type of the item ref. Blank fields
// keep their current value.
func (a *App) EditFile(ctx context.Context, ref string, it files.Item) (files.Item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return files.Item{}, err
	}
	id, err := a.ResolveFileID(ref)
	if err != nil {
		return files.Item{}, err
	}
	current, err := a.files.Get(id)
	if err != nil {
		return files.Item{}, err
	}
	it.ID = id
	if it.Name == "" {
		it.Name = current.Name
	}
	if it.URL == "" {
		it.URL = current.URL
	}
	updated, err := a.files.Update(actor, it)
	if err != nil {
		return files.Item{}, err
	}
	a.notices.Push("Resource updated.", notify.Success)
	if err := a.persist(ctx); err != nil {
		return files.Item{}, err
	}
	return updated, nil
}

// DeleteFile removes the item ref and detaches it from every task.
func (a *App) DeleteFile(ctx context.Context, ref string) (files.Item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return files.Item{}, err
	}
	id, err := a.ResolveFileID(ref)
	if err != nil {
		return files.Item{}, err
	}
	removed, ok := a.files.Delete(actor, id)
	if !ok {
		return files.Item{}, fmt.Errorf("delete %s: %w", id, files.ErrNotFound)
	}
	a.tasks.DetachFile(id)
	if err := a.persist(ctx); err != nil {
		return files.Item{}, err
	}
	return removed, nil
}

// Files searches the repository by name; an empty query and type list
// everything.
func (a *App) Files(query string, typ files.Type) []files.Item {
	return a.files.Search(query, typ)
}

// File returns the item with id or unique prefix ref.
func (a *App) File(ref string) (files.Item, error) {
	id, err := a.ResolveFileID(ref)
	if err != nil {
		return files.Item{}, err
	}
	return a.files.Get(id)
}
