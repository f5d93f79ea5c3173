package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

// NameFunc maps a user id to a display name.
type NameFunc func(id string) string

const timeLayout = "2006-01-02 15:04"

// RenderTaskTable lists tasks one per row.
func RenderTaskTable(tasks []task.Task, name NameFunc) string {
	if len(tasks) == 0 {
		return StyleSubtle.Render(" No tasks found.") + "\n"
	}
	t := &Table{
		Headers:  []string{"ID", "Title", "Type", "Status", "Priority", "Due", "Assignee"},
		MaxWidth: 40,
	}
	for _, tk := range tasks {
		kind := string(tk.Kind)
		if tk.Frequency != "" {
			kind += " · " + string(tk.Frequency)
		}
		due := tk.DueDate.String()
		if tk.DueTime != "" {
			due += " " + tk.DueTime
		}
		t.Rows = append(t.Rows, []string{
			tk.ID,
			tk.Title,
			kind,
			StatusStyle(tk.Status).Render(string(tk.Status)),
			PriorityStyle(tk.Priority).Render(string(tk.Priority)),
			due,
			name(tk.AssigneeID),
		})
	}
	return t.Render()
}

// RenderTaskDetail shows every field of one task, with attachment names.
func RenderTaskDetail(tk task.Task, name NameFunc, attachments []files.Item) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleSubtle.Render(fmt.Sprintf("%-11s", label)), value)
	}
	b.WriteString(StyleTitle.Render(tk.Title) + "\n")
	row("ID", tk.ID)
	row("Type", string(tk.Kind))
	if tk.Frequency != "" {
		row("Frequency", string(tk.Frequency))
	}
	row("Status", StatusStyle(tk.Status).Render(string(tk.Status)))
	row("Priority", PriorityStyle(tk.Priority).Render(string(tk.Priority)))
	due := tk.DueDate.String()
	if tk.DueTime != "" {
		due += " " + tk.DueTime
	}
	row("Due", due)
	row("Assignee", name(tk.AssigneeID))
	row("Creator", name(tk.CreatorID))
	row("Created", tk.CreatedAt.Local().Format(timeLayout))
	for _, f := range attachments {
		row("Attachment", fmt.Sprintf("%s (%s) %s", f.Name, f.Type, StyleSubtle.Render(f.URL)))
	}
	if tk.Description != "" {
		b.WriteString("\n" + WrapText(tk.Description, 80) + "\n")
	}
	return b.String()
}

// RenderConflicts lists the work that needs cover. Projected occurrences
// are marked and carry their target key so they can be assigned.
func RenderConflicts(conflicts []leave.Conflict, name NameFunc) string {
	if len(conflicts) == 0 {
		return StyleSuccess.Render(" No conflicting tasks in this window.") + "\n"
	}
	t := &Table{Headers: []string{"Key", "Title", "Due", "Kind", "Assignee"}}
	for _, c := range conflicts {
		kind := "existing"
		if c.Virtual() {
			kind = StyleVirtual.Render("projected")
		}
		t.Rows = append(t.Rows, []string{
			c.Target.Key(),
			c.Task.Title,
			c.DueDate.String(),
			kind,
			name(c.Task.AssigneeID),
		})
	}
	return t.Render()
}

// RenderLeaves lists leave records.
func RenderLeaves(records []leave.Record, name NameFunc) string {
	if len(records) == 0 {
		return StyleSubtle.Render(" No leave booked.") + "\n"
	}
	t := &Table{Headers: []string{"ID", "User", "Type", "From", "To", "Days", "Status", "Reason"}, MaxWidth: 40}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.ID,
			name(r.UserID),
			string(r.Type),
			r.StartDate.String(),
			r.EndDate.String(),
			fmt.Sprint(r.Days()),
			string(r.Status),
			r.Reason,
		})
	}
	return t.Render()
}

// RenderActivity lists audit entries, newest first.
func RenderActivity(entries []audit.Entry, name NameFunc) string {
	if len(entries) == 0 {
		return StyleSubtle.Render(" No activity yet.") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, " %s %s %s\n   %s\n",
			StyleSubtle.Render(e.Timestamp.Local().Format(timeLayout)),
			StyleTitle.Render(name(e.UserID)),
			StylePrimary.Render(e.Action),
			e.Details)
	}
	return b.String()
}

// RenderNotifications lists the feed with unread items highlighted.
func RenderNotifications(items []notify.Notification) string {
	if len(items) == 0 {
		return StyleSubtle.Render(" No notifications.") + "\n"
	}
	var b strings.Builder
	for _, n := range items {
		msg := n.Message
		if !n.Read {
			msg = StyleTitle.Render(msg)
		}
		fmt.Fprintf(&b, " %s %s %s\n", LevelIcon(n.Type), msg, StyleSubtle.Render(ago(n.Timestamp)))
	}
	return b.String()
}

// RenderFiles lists repository items.
func RenderFiles(items []files.Item, name NameFunc) string {
	if len(items) == 0 {
		return StyleSubtle.Render(" Repository is empty.") + "\n"
	}
	t := &Table{Headers: []string{"ID", "Name", "Type", "URL", "Uploaded by"}, MaxWidth: 48}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{it.ID, it.Name, string(it.Type), it.URL, name(it.UploadedBy)})
	}
	return t.Render()
}

// RenderStat formats one dashboard counter.
func RenderStat(label string, value int, style func(...string) string) string {
	return fmt.Sprintf(" %s %s", style(fmt.Sprintf("%3d", value)), StyleSubtle.Render(label))
}

func ago(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Local().Format("2006-01-02")
}
