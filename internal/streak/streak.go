// Package streak computes habit completion streaks from sets of YYYY-MM-DD days.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitlog/internal/utils"
)

// Current returns the number of consecutive completed days in the most recent
// run, provided the run is still alive at today. A run is alive when yesterday
// or the day before is completed; a lone completion today counts as 1. Today not
// yet being marked does not break a streak, a two-day gap does.
//
// Malformed dates and duplicates are ignored.
func Current(completedDays []string, today time.Time) int {
	days := parseSet(completedDays)
	if len(days) == 0 {
		return 0
	}

	t := utils.DateOf(today)
	_, hasToday := days[t]
	_, hasYesterday := days[t.AddDate(0, 0, -1)]
	_, hasDayBefore := days[t.AddDate(0, 0, -2)]

	if hasToday && !hasYesterday && !hasDayBefore {
		return 1
	}
	if !hasYesterday && !hasDayBefore {
		return 0
	}

	sorted := descending(days)
	count := 1
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].Equal(sorted[i-1].AddDate(0, 0, -1)) {
			break
		}
		count++
	}
	return count
}

// Longest returns the length of the longest run of consecutive days anywhere
// in the set.
func Longest(completedDays []string) int {
	days := parseSet(completedDays)
	if len(days) == 0 {
		return 0
	}

	sorted := descending(days)
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equal(sorted[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func parseSet(completedDays []string) map[time.Time]struct{} {
	days := make(map[time.Time]struct{}, len(completedDays))
	for _, d := range completedDays {
		t, err := utils.ParseDate(d)
		if err != nil {
			continue
		}
		days[t] = struct{}{}
	}
	return days
}

func descending(days map[time.Time]struct{}) []time.Time {
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})
	return sorted
}
