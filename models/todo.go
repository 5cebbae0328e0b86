package models

import "time"

// Todo priorities and categories accepted by the API.
var (
	TodoPriorities = []string{"low", "medium", "high", "urgent"}
	TodoCategories = []string{"academic", "personal", "work", "health", "social", "other"}
)

// Todo is a task with a single due timestamp. A todo is overdue when it is not
// done and DueAt is in the past; it is due soon when DueAt falls inside the
// next 24 hours.
type Todo struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Text        string     `gorm:"size:200;not null" json:"text"`
	Description string     `gorm:"size:500" json:"description"`
	DueAt       time.Time  `gorm:"index;not null" json:"due_at"`
	Done        bool       `gorm:"index;default:false" json:"done"`
	CompletedAt *time.Time `json:"completed_at"`
	Priority    string     `gorm:"size:16;default:'medium'" json:"priority"`
	Category    string     `gorm:"size:16;default:'personal'" json:"category"`
	Subtasks    []Subtask  `json:"subtasks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Status reports the classification of the todo relative to now.
func (t *Todo) Status(now time.Time) string {
	if t.Done {
		return "completed"
	}
	if t.DueAt.IsZero() {
		return "unknown"
	}
	if t.DueAt.Before(now) {
		return "overdue"
	}
	if t.DueAt.Before(now.Add(24 * time.Hour)) {
		return "due-soon"
	}
	return "pending"
}

// Progress reports completion as a rounded percentage. Without subtasks it is
// all-or-nothing on the done flag; with subtasks it is the share of completed
// subtasks regardless of the parent flag.
func (t *Todo) Progress() int {
	if len(t.Subtasks) == 0 {
		if t.Done {
			return 100
		}
		return 0
	}
	completed := 0
	for _, s := range t.Subtasks {
		if s.Done {
			completed++
		}
	}
	return int(float64(completed)/float64(len(t.Subtasks))*100 + 0.5)
}

// MarkCompleted sets the done flag and cascades to every open subtask.
// Toggling back off does not touch subtasks; the cascade is one-way.
func (t *Todo) MarkCompleted(now time.Time) {
	t.Done = true
	t.CompletedAt = &now
	for i := range t.Subtasks {
		if !t.Subtasks[i].Done {
			t.Subtasks[i].Done = true
			t.Subtasks[i].CompletedAt = &now
		}
	}
}
