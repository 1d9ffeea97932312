package models

import (
	"sort"
	"time"
)

// Habit is a named daily habit and the set of days it was completed.
type Habit struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
	// CompletedDays holds YYYY-MM-DD strings, each at most once.
	CompletedDays []string  `json:"completedDays"`
	Order         *int      `json:"order,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsCompleted reports whether the habit was completed on day.
func (h Habit) IsCompleted(day string) bool {
	for _, d := range h.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// WithToggled returns a copy of the habit with day added to or removed from
// the completion set. The receiver's slice is never modified.
func (h Habit) WithToggled(day string) Habit {
	days := make([]string, 0, len(h.CompletedDays)+1)
	found := false
	for _, d := range h.CompletedDays {
		if d == day {
			found = true
			continue
		}
		days = append(days, d)
	}
	if !found {
		days = append(days, day)
	}
	h.CompletedDays = days
	return h
}

// SortHabits orders habits by display order, then creation time. Habits
// without an explicit order sort after those that have one.
func SortHabits(habits []Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		a, b := habits[i], habits[j]
		switch {
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
