// Package calendar models the rolling week of days shown in the habit table.
package calendar

import (
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/utils"
)

// Window is a run of seven consecutive days: five before End, End itself, and
// one day after. End never moves past today.
type Window struct {
	End   time.Time
	Today time.Time
}

// NewWindow returns the window ending today.
func NewWindow(today time.Time) Window {
	t := utils.DateOf(today)
	return Window{End: t, Today: t}
}

// WindowEndingOn returns the window ending on end, clamped to today.
func WindowEndingOn(end, today time.Time) Window {
	w := NewWindow(today)
	e := utils.DateOf(end)
	if e.Before(w.Today) {
		w.End = e
	}
	return w
}

// Days returns the days of the window in ascending order.
func (w Window) Days() []time.Time {
	days := make([]time.Time, 0, constants.WindowDaysBefore+1+constants.WindowDaysAfter)
	for d := w.Start(); !d.After(w.Last()); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayStrings returns Days formatted as YYYY-MM-DD.
func (w Window) DayStrings() []string {
	days := w.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = utils.FormatDate(d)
	}
	return out
}

// Start is the first displayed day.
func (w Window) Start() time.Time {
	return w.End.AddDate(0, 0, -constants.WindowDaysBefore)
}

// Last is the final displayed day, one past End.
func (w Window) Last() time.Time {
	return w.End.AddDate(0, 0, constants.WindowDaysAfter)
}

// Previous moves the window back one week.
func (w Window) Previous() Window {
	w.End = w.End.AddDate(0, 0, -constants.WeekStep)
	return w
}

// Next moves the window forward one week, stopping at today.
func (w Window) Next() Window {
	next := w.End.AddDate(0, 0, constants.WeekStep)
	if w.Today.Before(next) {
		next = w.Today
	}
	w.End = next
	return w
}

// HasNext reports whether the window can move forward.
func (w Window) HasNext() bool {
	return w.End.Before(w.Today)
}

// IsToday reports whether d is the window's today.
func (w Window) IsToday(d time.Time) bool {
	return utils.DateOf(d).Equal(w.Today)
}

// Contains reports whether the YYYY-MM-DD day falls inside the window.
// Malformed days are never contained.
func (w Window) Contains(day string) bool {
	d, err := utils.ParseDate(day)
	if err != nil {
		return false
	}
	return !d.Before(w.Start()) && !d.After(w.Last())
}
