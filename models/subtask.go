package models

import "time"

// Subtask is a checklist entry under a todo. Subtasks have no due time of
// their own; they only feed the parent's progress percentage.
type Subtask struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TodoID      uint       `gorm:"index;not null" json:"todo_id"`
	Text        string     `gorm:"size:100;not null" json:"text"`
	Done        bool       `gorm:"default:false" json:"done"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
