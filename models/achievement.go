package models

import "time"

// Achievement categories and difficulties accepted by the API.
var (
	AchievementCategories   = []string{"academic", "personal", "work", "health", "social", "creative", "learning", "other"}
	AchievementDifficulties = []string{"easy", "medium", "hard", "expert"}
)

// Achievement records something accomplished at a point in time. Streaks are
// derived from AchievedAt calendar dates (UTC); several achievements on the
// same date count as one streak day.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	AchievedAt  time.Time `gorm:"index;not null" json:"achieved_at"`
	Category    string    `gorm:"size:16;default:'personal'" json:"category"`
	Difficulty  string    `gorm:"size:16;default:'medium'" json:"difficulty"`
	Points      int       `gorm:"default:10" json:"points"`
	Notes       string    `gorm:"size:1000" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
