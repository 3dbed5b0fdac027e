package services

import (
	"fmt"
	"time"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/dates"
	"github.com/mulvri/nindo/internal/models"
)

// Mood reminder frequencies.
const (
	MoodFreqDaily    = "daily"
	MoodFreq2Days    = "2days"
	MoodFreq3Weekly  = "3weekly"
	MoodFreqWeekly   = "weekly"
	MoodFreqDisabled = "disabled"
)

type MoodService struct {
	db    *database.DB
	prefs *PrefsService
	now   func() time.Time
}

func NewMoodService(db *database.DB, prefs *PrefsService) *MoodService {
	return &MoodService{db: db, prefs: prefs, now: time.Now}
}

// SetClock overrides the service clock. Used by tests.
func (s *MoodService) SetClock(now func() time.Time) {
	s.now = now
}

// SelectDaily records the mood for today. Selecting again the same day
// replaces the earlier choice.
func (s *MoodService) SelectDaily(mood, source string) error {
	if mood == "" {
		return fmt.Errorf("mood is required")
	}
	if source == "" {
		source = models.MoodSourceApp
	}

	// Ensure the preferences row exists before the denormalized update below.
	prefs, err := s.prefs.Get()
	if err != nil {
		return err
	}

	now := s.now()
	todayStr := dates.FormatISO(dates.Midnight(now))

	query := `INSERT INTO mood_history (date, mood, selected_at, source) VALUES (?, ?, ?, ?)
			  ON CONFLICT(date) DO UPDATE SET mood = ?, selected_at = ?, source = ?`
	if _, err := s.db.Exec(query, todayStr, mood, now, source, mood, now, source); err != nil {
		return fmt.Errorf("failed to record mood: %w", err)
	}

	update := `UPDATE user_preferences SET current_day_mood = ?, last_mood_date = ? WHERE id = ?`
	if _, err := s.db.Exec(update, mood, todayStr, prefs.ID); err != nil {
		return fmt.Errorf("failed to update mood preferences: %w", err)
	}
	return nil
}

// Today returns today's mood, or empty when none is selected yet.
func (s *MoodService) Today() (string, error) {
	prefs, err := s.prefs.Get()
	if err != nil {
		return "", err
	}

	todayStr := dates.FormatISO(dates.Midnight(s.now()))
	if prefs.LastMoodDate == todayStr {
		return prefs.CurrentDayMood, nil
	}
	return "", nil
}

// History returns mood entries for the last `days` days, newest first.
func (s *MoodService) History(days int) ([]models.MoodEntry, error) {
	if days <= 0 {
		days = 30
	}

	start := dates.Midnight(s.now()).AddDate(0, 0, -(days - 1))

	var history []models.MoodEntry
	query := `SELECT id, date, mood, selected_at, source FROM mood_history WHERE date >= ? ORDER BY date DESC`
	if err := s.db.Select(&history, query, dates.FormatISO(start)); err != nil {
		return nil, fmt.Errorf("failed to get mood history: %w", err)
	}
	return history, nil
}

// Stats summarizes mood selections over the period.
func (s *MoodService) Stats(days int) (*models.MoodStats, error) {
	history, err := s.History(days)
	if err != nil {
		return nil, err
	}

	stats := &models.MoodStats{
		MoodCounts:  make(map[string]int),
		Percentages: make(map[string]int),
		TotalDays:   len(history),
	}

	for _, entry := range history {
		stats.MoodCounts[entry.Mood]++
	}

	maxCount := 0
	for mood, count := range stats.MoodCounts {
		stats.Percentages[mood] = int(float64(count)/float64(stats.TotalDays)*100 + 0.5)
		if count > maxCount {
			maxCount = count
			stats.DominantMood = mood
		}
	}

	return stats, nil
}

// Trend returns one point per day over the period, including empty days, for
// the trend graph.
func (s *MoodService) Trend(days int) ([]models.MoodTrendPoint, error) {
	if days <= 0 {
		days = 30
	}

	history, err := s.History(days)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]map[string]int)
	for _, entry := range history {
		if grouped[entry.Date] == nil {
			grouped[entry.Date] = make(map[string]int)
		}
		grouped[entry.Date][entry.Mood]++
	}

	today := dates.Midnight(s.now())
	points := make([]models.MoodTrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dateStr := dates.FormatISO(today.AddDate(0, 0, -i))
		counts := grouped[dateStr]
		if counts == nil {
			counts = map[string]int{}
		}
		total := 0
		for _, c := range counts {
			total += c
		}
		points = append(points, models.MoodTrendPoint{Date: dateStr, MoodCounts: counts, Total: total})
	}

	return points, nil
}

// ShouldAskToday reports whether the mood selector should be shown: at most
// once per day, only after the configured reminder time, and subject to the
// user's frequency setting.
func (s *MoodService) ShouldAskToday() (bool, error) {
	prefs, err := s.prefs.Get()
	if err != nil {
		return false, err
	}

	now := s.now()
	today := dates.Midnight(now)
	todayStr := dates.FormatISO(today)

	if prefs.LastMoodDate == todayStr {
		return false, nil
	}
	if !prefs.MoodReminderEnabled || prefs.MoodReminderFreq == MoodFreqDisabled {
		return false, nil
	}

	// Hold the prompt until the configured mood reminder time has passed.
	var startTime string
	query := `SELECT start_time FROM reminders WHERE type = ? AND enabled = TRUE ORDER BY id LIMIT 1`
	if err := s.db.Get(&startTime, query, models.ReminderTypeMood); err == nil && startTime != "" {
		if reminderMinutes, err := dates.ParseClock(startTime); err == nil {
			if now.Hour()*60+now.Minute() < reminderMinutes {
				return false, nil
			}
		}
	}

	lastMood := time.Time{}
	if prefs.LastMoodDate != "" {
		if parsed, err := dates.ParseISO(prefs.LastMoodDate); err == nil {
			lastMood = parsed
		}
	}

	switch prefs.MoodReminderFreq {
	case MoodFreq2Days:
		return lastMood.IsZero() || dates.DaysBetween(lastMood, today) >= 2, nil
	case MoodFreq3Weekly:
		// Monday, Wednesday, Friday
		wd := dates.ISOWeekday(today)
		return wd == 1 || wd == 3 || wd == 5, nil
	case MoodFreqWeekly:
		return lastMood.IsZero() || dates.DaysBetween(lastMood, today) >= 7, nil
	default:
		return true, nil
	}
}
