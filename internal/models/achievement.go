package models

import (
	"time"
)

// Milestone is one entry of the fixed streak-threshold table.
type Milestone struct {
	Streak int    `json:"streak"`
	ID     string `json:"id"`
	Icon   string `json:"icon"`
	Title  string `json:"title"`
	Desc   string `json:"description"`
}

// Achievement is a permanent unlock marker. One row per milestone id, created
// once and never duplicated.
type Achievement struct {
	ID            int       `json:"id" db:"id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
	Notified      bool      `json:"notified" db:"notified"`
}

// AchievementView joins the milestone table with the user's unlock state.
type AchievementView struct {
	Milestone
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
	Notified   bool       `json:"notified"`
}
