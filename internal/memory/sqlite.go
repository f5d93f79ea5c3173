package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
)

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// initSchema creates the database tables if they don't exist. The position
// column keeps each collection in the order the app holds it.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		avatar TEXT,
		theme TEXT NOT NULL DEFAULT 'system'
	);

	CREATE TABLE IF NOT EXISTS tasks (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		frequency TEXT,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		assignee_id TEXT NOT NULL DEFAULT '',
		creator_id TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL,
		due_time TEXT,
		created_at TEXT NOT NULL,
		file_ids TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);

	CREATE TABLE IF NOT EXISTS leaves (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		type TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS files (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		type TEXT NOT NULL,
		uploaded_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activity_logs (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL,
		entity_id TEXT,
		entity_type TEXT
	);

	CREATE TABLE IF NOT EXISTS notifications (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		read INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces everything stored with snap in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"users", "tasks", "leaves", "files", "activity_logs", "notifications", "session"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, u := range snap.Users {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (position, id, name, email, role, avatar, theme)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, u.ID, u.Name, u.Email, u.Role, nullString(u.Avatar), string(u.ThemePreference)); err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}
	for i := range snap.Tasks {
		if err := insertTaskTx(ctx, tx, i, &snap.Tasks[i]); err != nil {
			return err
		}
	}
	for i, l := range snap.Leaves {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO leaves (position, id, user_id, start_date, end_date, type, reason, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, i, l.ID, l.UserID, l.StartDate.String(), l.EndDate.String(), string(l.Type), l.Reason, string(l.Status)); err != nil {
			return fmt.Errorf("insert leave %s: %w", l.ID, err)
		}
	}
	for i, f := range snap.Files {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO files (position, id, name, url, type, uploaded_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, f.ID, f.Name, f.URL, string(f.Type), f.UploadedBy, timeString(f.CreatedAt)); err != nil {
			return fmt.Errorf("insert file %s: %w", f.ID, err)
		}
	}
	for i, e := range snap.Logs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO activity_logs (position, id, user_id, action, details, timestamp, entity_id, entity_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, i, e.ID, e.UserID, e.Action, e.Details, timeString(e.Timestamp), nullString(e.EntityID), nullString(string(e.EntityType))); err != nil {
			return fmt.Errorf("insert log %s: %w", e.ID, err)
		}
	}
	for i, n := range snap.Notifications {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (position, id, message, type, read, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`, i, n.ID, n.Message, string(n.Type), n.Read, timeString(n.Timestamp)); err != nil {
			return fmt.Errorf("insert notification %s: %w", n.ID, err)
		}
	}
	if snap.CurrentUserID != "" {
		if _, err := tx.ExecContext(ctx, `INSERT INTO session (key, value) VALUES ('current_user_id', ?)`, snap.CurrentUserID); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads back everything Save wrote. An empty database yields an empty
// Snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Users, err = s.loadUsers(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Tasks, err = s.loadTasks(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Leaves, err = s.loadLeaves(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Files, err = s.loadFiles(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Logs, err = s.loadLogs(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Notifications, err = s.loadNotifications(ctx); err != nil {
		return Snapshot{}, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = 'current_user_id'`).Scan(&snap.CurrentUserID)
	if err != nil && err != sql.ErrNoRows {
		return Snapshot{}, fmt.Errorf("load session: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) loadUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, role, avatar, theme FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []user.User
	for rows.Next() {
		var u user.User
		var avatar sql.NullString
		var theme string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &avatar, &theme); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Avatar = avatar.String
		u.ThemePreference = user.Theme(theme)
		out = append(out, u)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, type, frequency, status, priority,
		       assignee_id, creator_id, due_date, due_time, created_at, file_ids
		FROM tasks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadLeaves(ctx context.Context) ([]leave.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, start_date, end_date, type, reason, status FROM leaves ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query leaves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []leave.Record
	for rows.Next() {
		var l leave.Record
		var start, end, typ, status string
		if err := rows.Scan(&l.ID, &l.UserID, &start, &end, &typ, &l.Reason, &status); err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		if err := l.StartDate.UnmarshalText([]byte(start)); err != nil {
			return nil, fmt.Errorf("leave %s start: %w", l.ID, err)
		}
		if err := l.EndDate.UnmarshalText([]byte(end)); err != nil {
			return nil, fmt.Errorf("leave %s end: %w", l.ID, err)
		}
		l.Type = leave.Type(typ)
		l.Status = leave.Status(status)
		out = append(out, l)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadFiles(ctx context.Context) ([]files.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, type, uploaded_by, created_at FROM files ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []files.Item
	for rows.Next() {
		var f files.Item
		var typ, createdAt string
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &typ, &f.UploadedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Type = files.Type(typ)
		if f.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("file %s created_at: %w", f.ID, err)
		}
		out = append(out, f)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadLogs(ctx context.Context) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, action, details, timestamp, entity_id, entity_type
		FROM activity_logs ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var ts string
		var entityID, entityType sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &ts, &entityID, &entityType); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("log %s timestamp: %w", e.ID, err)
		}
		e.EntityID = entityID.String
		e.EntityType = audit.EntityType(entityType.String)
		out = append(out, e)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadNotifications(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, message, type, read, timestamp FROM notifications ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []notify.Notification
	for rows.Next() {
		var n notify.Notification
		var typ, ts string
		if err := rows.Scan(&n.ID, &n.Message, &typ, &n.Read, &ts); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = notify.Level(typ)
		if n.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("notification %s timestamp: %w", n.ID, err)
		}
		out = append(out, n)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
