package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

// checkRowsErr checks for errors that occurred during row iteration.
// This should be called after every rows.Next() loop.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// encodeIDs keeps nil and empty apart: nil is NULL, empty is "[]".
func encodeIDs(ids []string) (sql.NullString, error) {
	if ids == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeIDs(ns sql.NullString) ([]string, error) {
	if !ns.Valid {
		return nil, nil
	}
	ids := []string{}
	if err := json.Unmarshal([]byte(ns.String), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func insertTaskTx(ctx context.Context, tx *sql.Tx, position int, t *task.Task) error {
	fileIDs, err := encodeIDs(t.FileIDs)
	if err != nil {
		return fmt.Errorf("encode file ids for %s: %w", t.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (position, id, title, description, type, frequency, status, priority,
			assignee_id, creator_id, due_date, due_time, created_at, file_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, position, t.ID, t.Title, t.Description, string(t.Kind), nullString(string(t.Frequency)),
		string(t.Status), string(t.Priority), t.AssigneeID, t.CreatorID, t.DueDate.String(),
		nullString(t.DueTime), timeString(t.CreatedAt), fileIDs)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (task.Task, error) {
	var t task.Task
	var kind, status, priority, dueDate, createdAt string
	var frequency, dueTime, fileIDs sql.NullString
	if err := rows.Scan(&t.ID, &t.Title, &t.Description, &kind, &frequency, &status, &priority,
		&t.AssigneeID, &t.CreatorID, &dueDate, &dueTime, &createdAt, &fileIDs); err != nil {
		return task.Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.Kind = task.Kind(kind)
	t.Frequency = task.Frequency(frequency.String)
	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	t.DueTime = dueTime.String
	if err := t.DueDate.UnmarshalText([]byte(dueDate)); err != nil {
		return task.Task{}, fmt.Errorf("task %s due date: %w", t.ID, err)
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return task.Task{}, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	if t.FileIDs, err = decodeIDs(fileIDs); err != nil {
		return task.Task{}, fmt.Errorf("task %s file ids: %w", t.ID, err)
	}
	return t, nil
}
