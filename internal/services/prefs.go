package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/models"
)

type PrefsService struct {
	db *database.DB
}

func NewPrefsService(db *database.DB) *PrefsService {
	return &PrefsService{db: db}
}

// Get returns the single preferences row, creating it with defaults on first
// access so callers never see a missing profile.
func (s *PrefsService) Get() (*models.Preferences, error) {
	prefs, err := s.fetch()
	if err == sql.ErrNoRows {
		if err := s.insertDefaults(); err != nil {
			return nil, fmt.Errorf("failed to initialize preferences: %w", err)
		}
		return s.fetch()
	} else if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return prefs, nil
}

func (s *PrefsService) fetch() (*models.Preferences, error) {
	var prefs models.Preferences
	query := `SELECT * FROM user_preferences ORDER BY id LIMIT 1`

	if err := s.db.Get(&prefs, query); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *PrefsService) insertDefaults() error {
	query := `INSERT INTO user_preferences (username) VALUES ('Ninja')`
	_, err := s.db.Exec(query)
	return err
}

// Save applies a partial update; nil fields in the request are left untouched.
func (s *PrefsService) Save(req *models.SavePreferencesRequest) error {
	prefs, err := s.Get()
	if err != nil {
		return err
	}

	set := ""
	args := []interface{}{}
	add := func(column string, value interface{}) {
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, value)
	}

	if req.OnboardingCompleted != nil {
		add("onboarding_completed", *req.OnboardingCompleted)
	}
	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.Username != nil {
		add("username", *req.Username)
	}
	if req.FavoriteAnimes != nil {
		encoded, err := json.Marshal(*req.FavoriteAnimes)
		if err != nil {
			return fmt.Errorf("failed to encode favorite animes: %w", err)
		}
		add("favorite_animes", string(encoded))
	}
	if req.SelectedMoods != nil {
		encoded, err := json.Marshal(*req.SelectedMoods)
		if err != nil {
			return fmt.Errorf("failed to encode selected moods: %w", err)
		}
		add("selected_moods", string(encoded))
	}
	if req.ChakraColor != nil {
		add("chakra_color", *req.ChakraColor)
	}
	if req.Theme != nil {
		add("theme", *req.Theme)
	}
	if req.QuoteFontFamily != nil {
		add("quote_font_family", *req.QuoteFontFamily)
	}
	if req.AppFontFamily != nil {
		add("app_font_family", *req.AppFontFamily)
	}
	if req.ReminderTime != nil {
		add("reminder_time", *req.ReminderTime)
	}
	if req.MoodReminderEnabled != nil {
		add("mood_reminder_enabled", *req.MoodReminderEnabled)
	}
	if req.MoodReminderFreq != nil {
		add("mood_reminder_frequency", *req.MoodReminderFreq)
	}
	if req.StreakRemEnabled != nil {
		add("streak_reminder_enabled", *req.StreakRemEnabled)
	}
	if req.QuoteNotifEnabled != nil {
		add("quote_notifications_enabled", *req.QuoteNotifEnabled)
	}
	if req.QuoteNotifCount != nil {
		add("quote_notifications_count", *req.QuoteNotifCount)
	}

	if set == "" {
		return nil
	}

	args = append(args, prefs.ID)
	query := fmt.Sprintf(`UPDATE user_preferences SET %s WHERE id = ?`, set)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Reset wipes all training data: history tables, achievements, notification
// log and the profile itself. Seed quotes survive but lose favorite marks.
func (s *PrefsService) Reset() error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`UPDATE quotes SET is_favorite = FALSE`,
		`DELETE FROM user_preferences`,
		`DELETE FROM mood_history`,
		`DELETE FROM streak_history`,
		`DELETE FROM achievements`,
		`DELETE FROM notification_history`,
		`DELETE FROM reminders`,
		`INSERT INTO user_preferences (username) VALUES ('Ninja')`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to reset data: %w", err)
		}
	}

	return tx.Commit()
}
