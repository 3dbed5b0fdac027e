package models

import (
	"time"
)

// Notification history entry types.
const (
	NotifTypeQuote        = "quote"
	NotifTypeMoodReminder = "mood_reminder"
	NotifTypeStreakDanger = "streak_danger"
	NotifTypeMilestone    = "milestone"
)

// NotificationRecord is one delivered notification, kept so the in-app
// notification center can show history after the push itself is gone.
type NotificationRecord struct {
	ID      int       `json:"id" db:"id"`
	QuoteID *int      `json:"quote_id" db:"quote_id"`
	Title   string    `json:"title" db:"title"`
	Body    string    `json:"body" db:"body"`
	SentAt  time.Time `json:"sent_at" db:"sent_at"`
	Type    string    `json:"type" db:"type"`
	IsRead  bool      `json:"is_read" db:"is_read"`
}
