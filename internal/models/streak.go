package models

// Streak day statuses as stored in streak_history.
const (
	StreakStatusCompleted = "completed"
	StreakStatusMissed    = "missed"
	StreakStatusGrace     = "grace"
)

// StreakDay is one row of the append-only streak audit trail: one record per
// calendar date, never overwritten once written.
type StreakDay struct {
	ID               int    `json:"id" db:"id"`
	Date             string `json:"date" db:"date"` // YYYY-MM-DD
	Status           string `json:"status" db:"status"`
	StreakCountAtDay int    `json:"streak_count_at_day" db:"streak_count_at_day"`
}

// StreakUpdateResult describes what happened to the streak on an app-open
// event, for the UI to react to (broken-streak modal, grace shield, confetti).
type StreakUpdateResult struct {
	StreakBroken   bool `json:"streak_broken"`
	PreviousStreak int  `json:"previous_streak"`
	NewStreak      int  `json:"new_streak"`
	WasGracePeriod bool `json:"was_grace_period"`
	MissedDays     int  `json:"missed_days"`
}
