package models

import (
	"testing"
	"time"
)

func TestTodoStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	done := now.Add(-time.Hour)
	cases := []struct {
		name string
		todo Todo
		want string
	}{
		{"completed", Todo{Done: true, CompletedAt: &done, DueAt: now.Add(-time.Hour)}, "completed"},
		{"missing timestamp", Todo{}, "unknown"},
		{"overdue", Todo{DueAt: now.Add(-time.Minute)}, "overdue"},
		{"due soon", Todo{DueAt: now.Add(23 * time.Hour)}, "due-soon"},
		{"pending", Todo{DueAt: now.Add(25 * time.Hour)}, "pending"},
		{"exactly now is due soon", Todo{DueAt: now}, "due-soon"},
	}
	for _, tc := range cases {
		if got := tc.todo.Status(now); got != tc.want {
			t.Errorf("%s: Status() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEventStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		event Event
		want  string
	}{
		{"completed", Event{IsCompleted: true, OccursAt: now.Add(time.Hour)}, "completed"},
		{"missing timestamp", Event{}, "unknown"},
		{"overdue", Event{OccursAt: now.Add(-time.Minute)}, "overdue"},
		{"upcoming", Event{OccursAt: now.Add(time.Hour)}, "upcoming"},
		{"scheduled", Event{OccursAt: now.Add(48 * time.Hour)}, "scheduled"},
	}
	for _, tc := range cases {
		if got := tc.event.Status(now); got != tc.want {
			t.Errorf("%s: Status() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
