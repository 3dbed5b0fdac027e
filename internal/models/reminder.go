package models

import (
	"encoding/json"
	"time"
)

// Reminder types. Quote reminders expand into several notifications spread
// over a time window; mood and streak reminders fire once at StartTime.
const (
	ReminderTypeMood   = "mood"
	ReminderTypeQuote  = "quote"
	ReminderTypeStreak = "streak"
)

// Reminder is a user-configured notification rule. Owned by the settings
// surface; the scheduler consumes it read-only.
type Reminder struct {
	ID         int       `json:"id" db:"id"`
	Type       string    `json:"type" db:"type"`
	Title      string    `json:"title" db:"title"`
	Enabled    bool      `json:"enabled" db:"enabled"`
	Count      int       `json:"count" db:"count"`
	StartTime  string    `json:"start_time" db:"start_time"` // HH:MM
	EndTime    string    `json:"end_time" db:"end_time"`     // HH:MM
	RepeatDays string    `json:"repeat_days" db:"repeat_days"` // JSON array of ISO weekdays 1..7
	Category   string    `json:"category" db:"category"`
	Sound      string    `json:"sound" db:"sound"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Weekdays decodes the repeat_days column. An empty or malformed value means
// every day, matching how the settings UI seeds new reminders.
func (r *Reminder) Weekdays() []int {
	if r.RepeatDays == "" {
		return []int{1, 2, 3, 4, 5, 6, 7}
	}
	var days []int
	if err := json.Unmarshal([]byte(r.RepeatDays), &days); err != nil || len(days) == 0 {
		return []int{1, 2, 3, 4, 5, 6, 7}
	}
	out := days[:0]
	for _, d := range days {
		if d >= 1 && d <= 7 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return []int{1, 2, 3, 4, 5, 6, 7}
	}
	return out
}

// ReminderRequest creates or updates a reminder.
type ReminderRequest struct {
	Type       string `json:"type" validate:"required,oneof=mood quote streak"`
	Title      string `json:"title"`
	Enabled    bool   `json:"enabled"`
	Count      int    `json:"count"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	RepeatDays []int  `json:"repeat_days"`
	Category   string `json:"category"`
	Sound      string `json:"sound"`
}
