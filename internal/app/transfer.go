package app

import (
	"context"

	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
)

// Export writes the workspace to path as JSON, or YAML for .yaml and .yml.
func (a *App) Export(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return memory.Export(a.fs, path, a.Snapshot())
}

// Import replaces the whole workspace with the snapshot at path. The
// current session survives when its user exists in the imported data.
func (a *App) Import(ctx context.Context, path string) (memory.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := memory.Import(a.fs, path)
	if err != nil {
		return memory.Snapshot{}, err
	}
	if snap.CurrentUserID == "" {
		snap.CurrentUserID = a.currentUserID
	}
	a.restore(snap)
	if err := a.persist(ctx); err != nil {
		return memory.Snapshot{}, err
	}
	return a.Snapshot(), nil
}
