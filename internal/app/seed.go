package app

import (
	"time"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
)

// Seed returns the starter workspace for a fresh install: a small team, two
// shared resources and two tasks due over the next days. Nobody is signed in.
func Seed(now time.Time) memory.Snapshot {
	today := calendar.FromTime(now)
	return memory.Snapshot{
		Users: []user.User{
			{ID: "u1", Name: "Alice Chen", Email: "alice@nexus.com", Role: "Senior Analyst", ThemePreference: user.ThemeSystem},
			{ID: "u2", Name: "Bob Smith", Email: "bob@nexus.com", Role: "Junior Analyst", ThemePreference: user.ThemeLight},
			{ID: "u3", Name: "Charlie Kim", Email: "charlie@nexus.com", Role: "Product Owner", ThemePreference: user.ThemeDark},
		},
		Files: []files.Item{
			{ID: "f1", Name: "Weekly Sales Dashboard", URL: "https://datastudio.google.com/reporting/sales", Type: files.TypeDashboard, UploadedBy: "u3", CreatedAt: now},
			{ID: "f2", Name: "Q3 Market Analysis", URL: "https://docs.google.com/document/d/market-q3", Type: files.TypeReport, UploadedBy: "u1", CreatedAt: now},
		},
		Tasks: []task.Task{
			{
				ID:          "t1",
				Title:       "Weekly KPI Report",
				Description: "Compile the sales and engagement metrics for the weekly stakeholder meeting.",
				Kind:        task.KindBAU,
				Frequency:   task.FrequencyWeekly,
				Status:      task.StatusToDo,
				Priority:    task.PriorityHigh,
				AssigneeID:  "u1",
				CreatorID:   "u3",
				DueDate:     today.AddDays(1),
				DueTime:     "10:00",
				CreatedAt:   now,
				FileIDs:     []string{"f1"},
			},
			{
				ID:          "t2",
				Title:       "Competitor Analysis - Project X",
				Description: "Deep dive into feature set of main competitor for the new checkout flow.",
				Kind:        task.KindAdHoc,
				Status:      task.StatusInProgress,
				Priority:    task.PriorityMedium,
				AssigneeID:  "u1",
				CreatorID:   "u1",
				DueDate:     today.AddDays(2),
				DueTime:     "17:00",
				CreatedAt:   now,
			},
		},
	}
}
