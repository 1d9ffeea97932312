package models

import (
	"testing"
	"time"
)

func TestWithToggled(t *testing.T) {
	h := Habit{ID: "h1", Name: "Read", CompletedDays: []string{"2024-03-08", "2024-03-09"}}

	added := h.WithToggled("2024-03-10")
	if !added.IsCompleted("2024-03-10") {
		t.Error("toggle should add a missing day")
	}
	if len(h.CompletedDays) != 2 {
		t.Errorf("original habit modified: %v", h.CompletedDays)
	}

	removed := added.WithToggled("2024-03-09")
	if removed.IsCompleted("2024-03-09") {
		t.Error("toggle should remove a present day")
	}

	back := removed.WithToggled("2024-03-09").WithToggled("2024-03-10")
	if len(back.CompletedDays) != 2 || !back.IsCompleted("2024-03-08") || !back.IsCompleted("2024-03-09") {
		t.Errorf("toggling twice should restore the set, got %v", back.CompletedDays)
	}
}

func TestSortHabits(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	one, two := 1, 2
	habits := []Habit{
		{ID: "unordered-late", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "second", Order: &two, CreatedAt: base},
		{ID: "unordered-early", CreatedAt: base.Add(time.Hour)},
		{ID: "first", Order: &one, CreatedAt: base.Add(3 * time.Hour)},
	}

	SortHabits(habits)

	want := []string{"first", "second", "unordered-early", "unordered-late"}
	for i, id := range want {
		if habits[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, habits[i].ID, id)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}
	if !s.Expired(now) {
		t.Error("session expiring exactly now should be expired")
	}
	s.ExpiresAt = now.Add(time.Minute)
	if s.Expired(now) {
		t.Error("session expiring later should be valid")
	}
}
