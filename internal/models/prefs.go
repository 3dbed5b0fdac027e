package models

import (
	"encoding/json"
	"time"
)

// Preferences is the single-row profile and progress record. The streak
// engine is the only writer of the streak/xp columns; the settings surface
// owns the rest.
type Preferences struct {
	ID                  int        `json:"id" db:"id"`
	OnboardingCompleted bool       `json:"onboarding_completed" db:"onboarding_completed"`
	FirstName           string     `json:"first_name" db:"first_name"`
	Username            string     `json:"username" db:"username"`
	FavoriteAnimes      string     `json:"favorite_animes" db:"favorite_animes"` // JSON array
	SelectedMoods       string     `json:"selected_moods" db:"selected_moods"`   // JSON array
	ChakraColor         string     `json:"chakra_color" db:"chakra_color"`
	Theme               string     `json:"theme" db:"theme"`
	QuoteFontFamily     string     `json:"quote_font_family" db:"quote_font_family"`
	AppFontFamily       string     `json:"app_font_family" db:"app_font_family"`
	ReminderTime        string     `json:"reminder_time" db:"reminder_time"`
	MoodReminderEnabled bool       `json:"mood_reminder_enabled" db:"mood_reminder_enabled"`
	MoodReminderFreq    string     `json:"mood_reminder_frequency" db:"mood_reminder_frequency"`
	StreakRemEnabled    bool       `json:"streak_reminder_enabled" db:"streak_reminder_enabled"`
	QuoteNotifEnabled   bool       `json:"quote_notifications_enabled" db:"quote_notifications_enabled"`
	QuoteNotifCount     int        `json:"quote_notifications_count" db:"quote_notifications_count"`
	LastOpeningDate     *time.Time `json:"last_opening_date" db:"last_opening_date"`
	StreakCount         int        `json:"streak_count" db:"streak_count"`
	BestStreak          int        `json:"best_streak" db:"best_streak"`
	TotalDaysOpened     int        `json:"total_days_opened" db:"total_days_opened"`
	XP                  int        `json:"xp" db:"xp"`
	LastMoodDate        string     `json:"last_mood_date" db:"last_mood_date"`
	CurrentDayMood      string     `json:"current_day_mood" db:"current_day_mood"`
}

// FavoriteAnimeList decodes the favorite_animes JSON column.
func (p *Preferences) FavoriteAnimeList() []string {
	return decodeStringList(p.FavoriteAnimes)
}

// SelectedMoodList decodes the selected_moods JSON column.
func (p *Preferences) SelectedMoodList() []string {
	return decodeStringList(p.SelectedMoods)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// SavePreferencesRequest is a partial update of the preferences row. Nil
// fields are left untouched.
type SavePreferencesRequest struct {
	OnboardingCompleted *bool     `json:"onboarding_completed"`
	FirstName           *string   `json:"first_name"`
	Username            *string   `json:"username"`
	FavoriteAnimes      *[]string `json:"favorite_animes"`
	SelectedMoods       *[]string `json:"selected_moods"`
	ChakraColor         *string   `json:"chakra_color"`
	Theme               *string   `json:"theme"`
	QuoteFontFamily     *string   `json:"quote_font_family"`
	AppFontFamily       *string   `json:"app_font_family"`
	ReminderTime        *string   `json:"reminder_time"`
	MoodReminderEnabled *bool     `json:"mood_reminder_enabled"`
	MoodReminderFreq    *string   `json:"mood_reminder_frequency"`
	StreakRemEnabled    *bool     `json:"streak_reminder_enabled"`
	QuoteNotifEnabled   *bool     `json:"quote_notifications_enabled"`
	QuoteNotifCount     *int      `json:"quote_notifications_count"`
}
