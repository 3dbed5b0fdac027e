package models

import (
	"time"
)

// Mood entry sources.
const (
	MoodSourceApp          = "app"
	MoodSourceNotification = "notification"
	MoodSourceRetroactive  = "retroactive"
)

// MoodEntry is one day's mood selection. At most one row per date; selecting
// again the same day overwrites the existing row.
type MoodEntry struct {
	ID         int       `json:"id" db:"id"`
	Date       string    `json:"date" db:"date"` // YYYY-MM-DD
	Mood       string    `json:"mood" db:"mood"`
	SelectedAt time.Time `json:"selected_at" db:"selected_at"`
	Source     string    `json:"source" db:"source"`
}

// MoodStats summarizes mood selections over a period.
type MoodStats struct {
	MoodCounts   map[string]int `json:"mood_counts"`
	Percentages  map[string]int `json:"percentages"`
	DominantMood string         `json:"dominant_mood"`
	TotalDays    int            `json:"total_days"`
}

// MoodTrendPoint is one day of the trend graph, including empty days.
type MoodTrendPoint struct {
	Date       string         `json:"date"`
	MoodCounts map[string]int `json:"mood_counts"`
	Total      int            `json:"total"`
}
