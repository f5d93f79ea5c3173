package calendar

// Window is an inclusive range of calendar days.
type Window struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside w. The window runs from local
// midnight of Start to the last instant of End, and d is taken at midday.
func (w Window) Contains(d Date) bool {
	due := d.Midday()
	return !due.Before(w.Start.StartOfDay()) && !due.After(w.End.EndOfDay())
}

// Empty reports whether End is before Start.
func (w Window) Empty() bool {
	return w.End.Before(w.Start)
}

// Days is the inclusive length of w in days, zero for an empty window.
func (w Window) Days() int {
	if w.Empty() {
		return 0
	}
	return w.Start.DaysUntil(w.End) + 1
}
