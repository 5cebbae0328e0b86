package reminder

import (
	"testing"
	"time"
)

var clock = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil, clock)
	if len(c.Overdue) != 0 || len(c.DueSoon) != 0 {
		t.Errorf("Classify(nil) = %+v, want empty", c)
	}
}

func TestClassifyPartitions(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "past", Due: clock.Add(-2 * time.Hour)},
		{ID: 2, Title: "soon", Due: clock.Add(3 * time.Hour)},
		{ID: 3, Title: "far", Due: clock.Add(48 * time.Hour)},
	}
	c := Classify(items, clock)
	if len(c.Overdue) != 1 || c.Overdue[0].ID != 1 {
		t.Errorf("Overdue = %+v, want item 1 only", c.Overdue)
	}
	if len(c.DueSoon) != 1 || c.DueSoon[0].ID != 2 {
		t.Errorf("DueSoon = %+v, want item 2 only", c.DueSoon)
	}
}

func TestClassifyAtNowIsDueSoon(t *testing.T) {
	c := Classify([]Item{{ID: 1, Due: clock}}, clock)
	if len(c.Overdue) != 0 {
		t.Errorf("item at now classified overdue: %+v", c.Overdue)
	}
	if len(c.DueSoon) != 1 {
		t.Errorf("item at now not classified due soon: %+v", c.DueSoon)
	}
}

func TestClassifyAtWindowEdgeExcluded(t *testing.T) {
	c := Classify([]Item{{ID: 1, Due: clock.Add(DueSoonWindow)}}, clock)
	if len(c.Overdue) != 0 || len(c.DueSoon) != 0 {
		t.Errorf("item at now+24h classified: %+v", c)
	}
}

func TestClassifySkipsCompleted(t *testing.T) {
	items := []Item{
		{ID: 1, Due: clock.Add(-time.Hour), Done: true},
		{ID: 2, Due: clock.Add(time.Hour), Done: true},
	}
	c := Classify(items, clock)
	if len(c.Overdue) != 0 || len(c.DueSoon) != 0 {
		t.Errorf("completed items classified: %+v", c)
	}
}

func TestClassifyDropsZeroTimestamp(t *testing.T) {
	c := Classify([]Item{{ID: 1, Title: "broken"}}, clock)
	if len(c.Overdue) != 0 || len(c.DueSoon) != 0 {
		t.Errorf("zero-timestamp item classified: %+v", c)
	}
}

func TestClassifyOrdering(t *testing.T) {
	items := []Item{
		{ID: 5, Due: clock.Add(-time.Hour)},
		{ID: 2, Due: clock.Add(-3 * time.Hour)},
		{ID: 9, Due: clock.Add(-3 * time.Hour)},
		{ID: 1, Due: clock.Add(-3 * time.Hour)},
	}
	c := Classify(items, clock)
	// equal timestamps break ties by ID
	wantIDs := []uint{1, 2, 9, 5}
	if len(c.Overdue) != 4 {
		t.Fatalf("len(Overdue) = %d, want 4", len(c.Overdue))
	}
	for i, want := range wantIDs {
		if c.Overdue[i].ID != want {
			t.Errorf("Overdue[%d].ID = %d, want %d", i, c.Overdue[i].ID, want)
		}
	}
}

func TestClassifyOrderInputInvariant(t *testing.T) {
	a := []Item{
		{ID: 1, Due: clock.Add(time.Hour)},
		{ID: 2, Due: clock.Add(2 * time.Hour)},
	}
	b := []Item{a[1], a[0]}
	ca := Classify(a, clock)
	cb := Classify(b, clock)
	if len(ca.DueSoon) != len(cb.DueSoon) {
		t.Fatalf("lengths differ: %d vs %d", len(ca.DueSoon), len(cb.DueSoon))
	}
	for i := range ca.DueSoon {
		if ca.DueSoon[i].ID != cb.DueSoon[i].ID {
			t.Errorf("position %d: %d vs %d", i, ca.DueSoon[i].ID, cb.DueSoon[i].ID)
		}
	}
}
