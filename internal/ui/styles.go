package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("63")  // Indigo
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")
	ColorBlue      = lipgloss.Color("75")
	ColorPurple    = lipgloss.Color("141") // Virtual occurrences

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleVirtual = lipgloss.NewStyle().Foreground(ColorPurple).Italic(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Selection lists
	StyleSelectTitle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSelectNormal = lipgloss.NewStyle().Foreground(ColorText)
	StyleSelectActive = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	StyleSelectBadge  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleSelectDim    = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

// PriorityStyle colors a priority label.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityCritical:
		return StyleError.Bold(true)
	case task.PriorityHigh:
		return StyleWarning
	case task.PriorityLow:
		return StyleSubtle
	default:
		return StyleText
	}
}

// StatusStyle colors a status label.
func StatusStyle(s task.Status) lipgloss.Style {
	switch s {
	case task.StatusDone:
		return StyleSuccess
	case task.StatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case task.StatusInReview:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	default:
		return StyleText
	}
}

// LevelIcon is the marker shown in front of a notification.
func LevelIcon(l notify.Level) string {
	switch l {
	case notify.Success:
		return Icon("✓", StyleSuccess)
	case notify.Warning:
		return Icon("!", StyleWarning)
	case notify.Error:
		return Icon("✗", StyleError)
	default:
		return Icon("•", StylePrimary)
	}
}
