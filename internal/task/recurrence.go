package task

import (
	"iter"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
)

// DefaultMaxProjections bounds ProjectFutureOccurrences when the caller
// passes a non-positive limit.
const DefaultMaxProjections = 50

// AddCalendarUnit advances d by one interval of freq. Monthly and quarterly
// steps clamp to the last day of a shorter target month. An unknown or empty
// frequency returns d unchanged.
func AddCalendarUnit(d calendar.Date, freq Frequency) calendar.Date {
	switch freq {
	case FrequencyDaily:
		return d.AddDays(1)
	case FrequencyWeekly:
		return d.AddDays(7)
	case FrequencyBiWeekly:
		return d.AddDays(14)
	case FrequencyMonthly:
		return d.AddMonths(1)
	case FrequencyQuarterly:
		return d.AddMonths(3)
	}
	return d
}

// NextOccurrence returns the due date that follows t's own due date.
func NextOccurrence(t Task) calendar.Date {
	return AddCalendarUnit(t.DueDate, t.Frequency)
}

// ProjectFutureOccurrences yields the future due dates of a recurring task
// that fall inside [start, end], in ascending order. Generation starts at
// the occurrence after t.DueDate and stops once a date passes end or after
// max dates have been generated, counting those that fall before start.
// Non-recurring tasks yield nothing.
func ProjectFutureOccurrences(t Task, start, end calendar.Date, max int) iter.Seq[calendar.Date] {
	if max <= 0 {
		max = DefaultMaxProjections
	}
	window := calendar.Window{Start: start, End: end}
	return func(yield func(calendar.Date) bool) {
		if !t.Recurring() || t.DueDate.IsZero() || window.Empty() {
			return
		}
		next := NextOccurrence(t)
		for i := 0; i < max; i++ {
			if next.After(end) {
				return
			}
			if window.Contains(next) {
				if !yield(next) {
					return
				}
			}
			after := AddCalendarUnit(next, t.Frequency)
			if !after.After(next) {
				return
			}
			next = after
		}
	}
}
