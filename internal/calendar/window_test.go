package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowDays(t *testing.T) {
	w := NewWindow(time.Date(2024, 3, 10, 18, 45, 0, 0, time.UTC))

	got := w.DayStrings()
	want := []string{"2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10", "2024-03-11"}
	if len(got) != len(want) {
		t.Fatalf("DayStrings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, got[i], want[i])
		}
	}

	if !w.IsToday(date(2024, 3, 10)) {
		t.Error("IsToday(2024-03-10) should be true")
	}
	if w.IsToday(date(2024, 3, 11)) {
		t.Error("IsToday(2024-03-11) should be false")
	}
}

func TestWindowNavigation(t *testing.T) {
	today := date(2024, 3, 10)
	w := NewWindow(today)

	if w.HasNext() {
		t.Error("window ending today should not have a next week")
	}

	prev := w.Previous()
	if !prev.End.Equal(date(2024, 3, 3)) {
		t.Errorf("Previous().End = %v, want 2024-03-03", prev.End)
	}
	if !prev.HasNext() {
		t.Error("previous week should have a next week")
	}

	if back := prev.Next(); !back.End.Equal(today) {
		t.Errorf("Next() from one week back = %v, want today", back.End)
	}

	// Four days back: a full week forward would pass today, so it clamps
	partial := Window{End: date(2024, 3, 6), Today: today}
	if got := partial.Next(); !got.End.Equal(today) {
		t.Errorf("Next() clamped = %v, want today", got.End)
	}

	twoBack := w.Previous().Previous()
	if got := twoBack.Next(); !got.End.Equal(date(2024, 3, 3)) {
		t.Errorf("Next() from two weeks back = %v, want 2024-03-03", got.End)
	}
}

func TestWindowEndingOn(t *testing.T) {
	today := date(2024, 3, 10)

	if w := WindowEndingOn(date(2024, 2, 1), today); !w.End.Equal(date(2024, 2, 1)) {
		t.Errorf("End = %v, want 2024-02-01", w.End)
	}
	if w := WindowEndingOn(date(2024, 4, 1), today); !w.End.Equal(today) {
		t.Errorf("future end should clamp to today, got %v", w.End)
	}
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(date(2024, 3, 10))

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-03-04", false},
		{"2024-03-05", true},
		{"2024-03-10", true},
		{"2024-03-11", true},
		{"2024-03-12", false},
		{"bogus", false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.day); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.day, got, tt.want)
		}
	}
}
