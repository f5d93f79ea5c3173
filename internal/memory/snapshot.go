// Package memory persists the workspace: every collection the app holds in
// memory is saved as a whole after each change and reloaded verbatim at
// startup.
package memory

import (
	"context"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
)

// Snapshot is the full workspace state. Slices keep the order the app shows
// them in.
type Snapshot struct {
	Users         []user.User           `json:"users" yaml:"users"`
	Tasks         []task.Task           `json:"tasks" yaml:"tasks"`
	Leaves        []leave.Record        `json:"leaves" yaml:"leaves"`
	Files         []files.Item          `json:"files" yaml:"files"`
	Logs          []audit.Entry         `json:"logs" yaml:"logs"`
	Notifications []notify.Notification `json:"notifications" yaml:"notifications"`
	CurrentUserID string                `json:"currentUserId,omitempty" yaml:"currentUserId,omitempty"`
}

// Empty reports whether nothing has been saved yet.
func (s Snapshot) Empty() bool {
	return len(s.Users) == 0 && len(s.Tasks) == 0 && len(s.Leaves) == 0 &&
		len(s.Files) == 0 && len(s.Logs) == 0 && len(s.Notifications) == 0
}

// Store saves and loads snapshots.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}
