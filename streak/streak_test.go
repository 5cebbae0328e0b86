package streak

import (
	"testing"
	"time"

	"github.com/eduagenda/eduagenda/models"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func at(daysAgo int, hour int) time.Time {
	return now.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour).Add(time.Duration(hour) * time.Hour)
}

func achOn(ts ...time.Time) []models.Achievement {
	out := make([]models.Achievement, 0, len(ts))
	for i, t := range ts {
		out = append(out, models.Achievement{ID: uint(i + 1), AchievedAt: t, Points: 10, Category: "personal"})
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, now)
	if got.Current != 0 || got.Max != 0 {
		t.Errorf("Compute(nil) = %+v, want {0 0}", got)
	}
}

func TestComputeSingleToday(t *testing.T) {
	got := Compute(achOn(at(0, 9)), now)
	if got.Current != 1 || got.Max != 1 {
		t.Errorf("single today = %+v, want {1 1}", got)
	}
}

func TestComputeSingleStale(t *testing.T) {
	got := Compute(achOn(at(5, 9)), now)
	if got.Current != 0 || got.Max != 1 {
		t.Errorf("single stale = %+v, want {0 1}", got)
	}
}

func TestComputeThreeDayRun(t *testing.T) {
	got := Compute(achOn(at(0, 9), at(1, 20), at(2, 7)), now)
	if got.Current != 3 || got.Max != 3 {
		t.Errorf("three day run = %+v, want {3 3}", got)
	}
}

func TestComputeGapBreaksRun(t *testing.T) {
	got := Compute(achOn(at(0, 9), at(3, 9)), now)
	if got.Current != 1 || got.Max != 1 {
		t.Errorf("gapped = %+v, want {1 1}", got)
	}
}

func TestComputeYesterdayAnchorStillActive(t *testing.T) {
	got := Compute(achOn(at(1, 9), at(2, 9)), now)
	if got.Current != 2 || got.Max != 2 {
		t.Errorf("yesterday anchor = %+v, want {2 2}", got)
	}
}

func TestComputeStaleAnchorKeepsMax(t *testing.T) {
	got := Compute(achOn(at(2, 9), at(3, 9)), now)
	if got.Current != 0 || got.Max != 2 {
		t.Errorf("stale anchor = %+v, want {0 2}", got)
	}
}

func TestComputeOlderRunLongerThanCurrent(t *testing.T) {
	// Active run of 2, historical run of 4 with a gap in between.
	got := Compute(achOn(at(0, 9), at(1, 9), at(5, 9), at(6, 9), at(7, 9), at(8, 9)), now)
	if got.Current != 2 || got.Max != 4 {
		t.Errorf("mixed runs = %+v, want {2 4}", got)
	}
}

func TestComputeOrderInvariant(t *testing.T) {
	a := achOn(at(0, 9), at(1, 20), at(2, 7))
	b := achOn(at(2, 7), at(0, 9), at(1, 20))
	ra, rb := Compute(a, now), Compute(b, now)
	if ra != rb {
		t.Errorf("order changed result: %+v vs %+v", ra, rb)
	}
}

func TestComputeDuplicateDatesCollapse(t *testing.T) {
	// Two achievements on the same calendar day count as one streak day.
	dup := achOn(at(0, 8), at(0, 21), at(1, 12))
	got := Compute(dup, now)
	if got.Current != 2 || got.Max != 2 {
		t.Errorf("duplicates = %+v, want {2 2}", got)
	}
}

func TestComputeSkipsZeroTimestamps(t *testing.T) {
	in := achOn(at(0, 9))
	in = append(in, models.Achievement{ID: 99})
	got := Compute(in, now)
	if got.Current != 1 || got.Max != 1 {
		t.Errorf("zero timestamp not skipped: %+v", got)
	}
}

func TestComputeUTCDateBoundary(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC same day; 01:30 in UTC+2 is the previous UTC day.
	loc := time.FixedZone("UTC+2", 2*3600)
	lateLocal := time.Date(2026, 3, 10, 1, 30, 0, 0, loc) // 2026-03-09 23:30 UTC
	got := Compute(achOn(lateLocal), now)
	if got.Current != 1 || got.Max != 1 {
		t.Errorf("UTC boundary = %+v, want {1 1} (counts as yesterday)", got)
	}
}

func TestTotalPoints(t *testing.T) {
	in := []models.Achievement{
		{Points: 10}, {Points: 25}, {Points: 1},
	}
	if got := TotalPoints(in); got != 36 {
		t.Errorf("TotalPoints = %d, want 36", got)
	}
	if got := TotalPoints(nil); got != 0 {
		t.Errorf("TotalPoints(nil) = %d, want 0", got)
	}
}

func TestCountByCategoryOrdering(t *testing.T) {
	in := []models.Achievement{
		{Category: "work"}, {Category: "academic"}, {Category: "academic"},
		{Category: "health"}, {Category: "work"},
	}
	got := CountByCategory(in)
	want := []CategoryCount{
		{Category: "academic", Count: 2},
		{Category: "work", Count: 2},
		{Category: "health", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CountByCategory[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
