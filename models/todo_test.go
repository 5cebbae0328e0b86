package models

import (
	"testing"
	"time"
)

func TestTodoProgressWithoutSubtasks(t *testing.T) {
	todo := Todo{}
	if got := todo.Progress(); got != 0 {
		t.Errorf("open todo Progress() = %d, want 0", got)
	}
	todo.Done = true
	if got := todo.Progress(); got != 100 {
		t.Errorf("done todo Progress() = %d, want 100", got)
	}
}

func TestTodoProgressFromSubtasks(t *testing.T) {
	cases := []struct {
		name string
		done int
		open int
		want int
	}{
		{"none done", 0, 3, 0},
		{"one of three", 1, 2, 33},
		{"two of three", 2, 1, 67},
		{"all done", 3, 0, 100},
		{"half", 1, 1, 50},
	}
	for _, tc := range cases {
		todo := Todo{}
		for i := 0; i < tc.done; i++ {
			todo.Subtasks = append(todo.Subtasks, Subtask{Done: true})
		}
		for i := 0; i < tc.open; i++ {
			todo.Subtasks = append(todo.Subtasks, Subtask{})
		}
		if got := todo.Progress(); got != tc.want {
			t.Errorf("%s: Progress() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestTodoProgressIgnoresParentFlagWithSubtasks(t *testing.T) {
	todo := Todo{Done: true, Subtasks: []Subtask{{Done: true}, {}}}
	if got := todo.Progress(); got != 50 {
		t.Errorf("Progress() = %d, want 50 (subtasks override the parent flag)", got)
	}
}

func TestMarkCompletedCascadesToOpenSubtasks(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	todo := Todo{Subtasks: []Subtask{
		{ID: 1, Done: true, CompletedAt: &earlier},
		{ID: 2},
		{ID: 3},
	}}

	todo.MarkCompleted(now)

	if !todo.Done || todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Errorf("parent not completed: done=%v completedAt=%v", todo.Done, todo.CompletedAt)
	}
	for _, s := range todo.Subtasks {
		if !s.Done {
			t.Errorf("subtask %d not cascaded", s.ID)
		}
	}
	// Already-done subtasks keep their original completion time.
	if !todo.Subtasks[0].CompletedAt.Equal(earlier) {
		t.Errorf("subtask 1 CompletedAt = %v, want %v", todo.Subtasks[0].CompletedAt, earlier)
	}
	if !todo.Subtasks[1].CompletedAt.Equal(now) {
		t.Errorf("subtask 2 CompletedAt = %v, want %v", todo.Subtasks[1].CompletedAt, now)
	}
	if got := todo.Progress(); got != 100 {
		t.Errorf("Progress() after MarkCompleted = %d, want 100", got)
	}
}
