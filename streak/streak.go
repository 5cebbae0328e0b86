// Package streak derives continuous-day streaks and aggregate statistics from
// a user's achievements. Every function here is a pure computation over an
// in-memory snapshot: no storage access, no shared state, safe to call
// concurrently for different users.
//
// Calendar dates are taken in UTC. An achievement at 23:30 local time may
// therefore land on the next UTC day; the policy is fixed so that streak
// boundaries do not drift with server timezone.
package streak

import (
	"sort"
	"time"

	"github.com/eduagenda/eduagenda/models"
)

// Result is the derived streak summary. It is never persisted; callers
// recompute it from the current achievement set on every request.
type Result struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// CategoryCount pairs a category with the number of achievements in it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Compute walks the distinct UTC calendar dates of the achievements and
// returns the active streak anchored at today/yesterday plus the longest run
// ever observed. Achievements with a zero timestamp are excluded rather than
// failing the whole computation.
func Compute(achievements []models.Achievement, now time.Time) Result {
	seen := make(map[int]struct{}, len(achievements))
	days := make([]int, 0, len(achievements))
	for _, a := range achievements {
		if a.AchievedAt.IsZero() {
			continue
		}
		d := epochDay(a.AchievedAt)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Result{}
	}

	// Most recent first
	sort.Sort(sort.Reverse(sort.IntSlice(days)))

	maxRun := 1
	run := 1
	headRun := 1 // length of the run anchored at the most recent date
	headOpen := true
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
			headOpen = false
		}
		if headOpen {
			headRun = run
		}
		if run > maxRun {
			maxRun = run
		}
	}

	today := epochDay(now)
	current := 0
	if days[0] == today || days[0] == today-1 {
		current = headRun
	}
	return Result{Current: current, Max: maxRun}
}

// TotalPoints sums the points of all achievements.
func TotalPoints(achievements []models.Achievement) int {
	total := 0
	for _, a := range achievements {
		total += a.Points
	}
	return total
}

// CountByCategory tallies achievements per category, ordered by descending
// count and then ascending category name so API output is deterministic.
func CountByCategory(achievements []models.Achievement) []CategoryCount {
	counts := map[string]int{}
	for _, a := range achievements {
		counts[a.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// epochDay reduces a timestamp to its UTC calendar date as a day ordinal.
func epochDay(t time.Time) int {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}
