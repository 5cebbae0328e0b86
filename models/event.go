package models

import "time"

// RecurrenceTypes are the supported repeat frequencies for events.
var RecurrenceTypes = []string{"daily", "weekly", "monthly", "yearly"}

// Event is a calendar entry. Classification mirrors Todo with IsCompleted in
// place of Done. Recurring events store only the base occurrence; later
// occurrences are expanded on demand and never materialized as rows.
type Event struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"index;not null" json:"user_id"`
	Title              string     `gorm:"size:100;not null" json:"title"`
	Description        string     `gorm:"size:500" json:"description"`
	OccursAt           time.Time  `gorm:"index;not null" json:"occurs_at"`
	DurationMin        int        `gorm:"default:60" json:"duration_min"`
	Location           string     `gorm:"size:200" json:"location"`
	Category           string     `gorm:"size:16;default:'personal'" json:"category"`
	Priority           string     `gorm:"size:16;default:'medium'" json:"priority"`
	IsRecurring        bool       `gorm:"default:false" json:"is_recurring"`
	RecurrenceType     string     `gorm:"size:16" json:"recurrence_type,omitempty"`
	RecurrenceInterval int        `gorm:"default:1" json:"recurrence_interval,omitempty"`
	RecurrenceEnd      *time.Time `json:"recurrence_end,omitempty"`
	IsCompleted        bool       `gorm:"index;default:false" json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Status reports the classification of the event relative to now.
func (e *Event) Status(now time.Time) string {
	if e.IsCompleted {
		return "completed"
	}
	if e.OccursAt.IsZero() {
		return "unknown"
	}
	if e.OccursAt.Before(now) {
		return "overdue"
	}
	if e.OccursAt.Before(now.Add(24 * time.Hour)) {
		return "upcoming"
	}
	return "scheduled"
}

// maxOccurrences bounds expansion so a malformed interval cannot loop forever.
const maxOccurrences = 1000

// Occurrences expands the event's start times inside [from, to). A
// non-recurring event contributes its base time only. Expansion stops at
// RecurrenceEnd when set.
func (e *Event) Occurrences(from, to time.Time) []time.Time {
	if !e.IsRecurring {
		if !e.OccursAt.Before(from) && e.OccursAt.Before(to) {
			return []time.Time{e.OccursAt}
		}
		return nil
	}

	interval := e.RecurrenceInterval
	if interval < 1 {
		interval = 1
	}

	var out []time.Time
	cur := e.OccursAt
	for i := 0; i < maxOccurrences; i++ {
		if !cur.Before(to) {
			break
		}
		if e.RecurrenceEnd != nil && cur.After(*e.RecurrenceEnd) {
			break
		}
		if !cur.Before(from) {
			out = append(out, cur)
		}
		switch e.RecurrenceType {
		case "daily":
			cur = cur.AddDate(0, 0, interval)
		case "weekly":
			cur = cur.AddDate(0, 0, 7*interval)
		case "monthly":
			cur = cur.AddDate(0, interval, 0)
		case "yearly":
			cur = cur.AddDate(interval, 0, 0)
		default:
			return out
		}
	}
	return out
}
