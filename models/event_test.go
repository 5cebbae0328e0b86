package models

import (
	"testing"
	"time"
)

func TestOccurrencesNonRecurring(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	event := Event{OccursAt: base}

	got := event.Occurrences(base.Add(-time.Hour), base.Add(time.Hour))
	if len(got) != 1 || !got[0].Equal(base) {
		t.Errorf("Occurrences inside window = %v, want [%v]", got, base)
	}
	if got := event.Occurrences(base.Add(time.Hour), base.Add(2*time.Hour)); len(got) != 0 {
		t.Errorf("Occurrences outside window = %v, want empty", got)
	}
	// Range end is exclusive.
	if got := event.Occurrences(base.Add(-time.Hour), base); len(got) != 0 {
		t.Errorf("Occurrences at exclusive end = %v, want empty", got)
	}
}

func TestOccurrencesDaily(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event := Event{
		OccursAt:           base,
		IsRecurring:        true,
		RecurrenceType:     "daily",
		RecurrenceInterval: 1,
	}

	got := event.Occurrences(base, base.AddDate(0, 0, 4))
	if len(got) != 4 {
		t.Fatalf("daily occurrences = %d, want 4", len(got))
	}
	for i, occ := range got {
		want := base.AddDate(0, 0, i)
		if !occ.Equal(want) {
			t.Errorf("occurrence %d = %v, want %v", i, occ, want)
		}
	}
}

func TestOccurrencesWeeklyWithInterval(t *testing.T) {
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	event := Event{
		OccursAt:           base,
		IsRecurring:        true,
		RecurrenceType:     "weekly",
		RecurrenceInterval: 2,
	}

	got := event.Occurrences(base, base.AddDate(0, 0, 29))
	want := []time.Time{base, base.AddDate(0, 0, 14), base.AddDate(0, 0, 28)}
	if len(got) != len(want) {
		t.Fatalf("biweekly occurrences = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOccurrencesMonthlySkipsEarlierWindow(t *testing.T) {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	event := Event{
		OccursAt:           base,
		IsRecurring:        true,
		RecurrenceType:     "monthly",
		RecurrenceInterval: 1,
	}

	// Window starts well after the base occurrence.
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	got := event.Occurrences(from, to)
	want := []time.Time{
		time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("monthly occurrences = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOccurrencesStopsAtRecurrenceEnd(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := base.AddDate(0, 0, 2)
	event := Event{
		OccursAt:           base,
		IsRecurring:        true,
		RecurrenceType:     "daily",
		RecurrenceInterval: 1,
		RecurrenceEnd:      &end,
	}

	got := event.Occurrences(base, base.AddDate(0, 0, 30))
	if len(got) != 3 {
		t.Errorf("occurrences with end date = %d, want 3 (end date inclusive)", len(got))
	}
}

func TestOccurrencesUnknownTypeYieldsNothing(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event := Event{OccursAt: base.AddDate(0, 0, -1), IsRecurring: true, RecurrenceType: "hourly"}
	if got := event.Occurrences(base, base.AddDate(0, 0, 7)); len(got) != 0 {
		t.Errorf("unknown recurrence type produced %v, want empty", got)
	}
}
