package controllers

import (
	"testing"
	"time"
)

func TestEventRequestDurationBounds(t *testing.T) {
	cases := []struct {
		duration int
		wantCode int
	}{
		{0, 0}, // zero falls back to the default
		{15, 0},
		{480, 0},
		{5, 40023},
		{14, 40023},
		{481, 40023},
		{5000, 40023},
		{-30, 40023},
	}
	for _, tc := range cases {
		req := eventRequest{
			Title:       "study session",
			OccursAt:    time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			DurationMin: tc.duration,
		}
		code, _ := req.validate()
		if code != tc.wantCode {
			t.Errorf("duration_min=%d: validate() = %d, want %d", tc.duration, code, tc.wantCode)
		}
	}
}

func TestEventRequestRecurrence(t *testing.T) {
	base := eventRequest{
		Title:    "lecture",
		OccursAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}

	req := base
	req.IsRecurring = true
	req.RecurrenceType = "weekly"
	req.RecurrenceInterval = 1
	if code, msg := req.validate(); code != 0 {
		t.Errorf("weekly recurrence rejected: %d %s", code, msg)
	}

	req = base
	req.IsRecurring = true
	req.RecurrenceType = "hourly"
	if code, _ := req.validate(); code != 40025 {
		t.Errorf("invalid recurrence type: validate() = %d, want 40025", code)
	}

	req = base
	req.IsRecurring = true
	req.RecurrenceType = "daily"
	req.RecurrenceInterval = -2
	if code, _ := req.validate(); code != 40026 {
		t.Errorf("negative interval: validate() = %d, want 40026", code)
	}

	// Recurrence fields are ignored on one-off events.
	req = base
	req.RecurrenceType = "hourly"
	if code, _ := req.validate(); code != 0 {
		t.Errorf("non-recurring event rejected on recurrence fields: %d", code)
	}
}

func TestAchievementRequestPointsBounds(t *testing.T) {
	cases := []struct {
		points   int
		wantCode int
	}{
		{0, 0}, // zero falls back to the default
		{1, 0},
		{1000, 0},
		{-1, 40043},
		{1001, 40043},
		{5000, 40043},
	}
	for _, tc := range cases {
		req := achievementRequest{
			Title:      "passed the exam",
			AchievedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			Points:     tc.points,
		}
		code, _ := req.validate()
		if code != tc.wantCode {
			t.Errorf("points=%d: validate() = %d, want %d", tc.points, code, tc.wantCode)
		}
	}
}
