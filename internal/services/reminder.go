package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/models"
)

type ReminderService struct {
	db    *database.DB
	prefs *PrefsService
}

func NewReminderService(db *database.DB, prefs *PrefsService) *ReminderService {
	return &ReminderService{db: db, prefs: prefs}
}

func (s *ReminderService) List() ([]models.Reminder, error) {
	var reminders []models.Reminder
	query := `SELECT * FROM reminders ORDER BY id`
	if err := s.db.Select(&reminders, query); err != nil {
		return nil, fmt.Errorf("failed to get reminders: %w", err)
	}
	return reminders, nil
}

// Enabled returns only the reminders the scheduler should act on.
func (s *ReminderService) Enabled() ([]models.Reminder, error) {
	var reminders []models.Reminder
	query := `SELECT * FROM reminders WHERE enabled = TRUE ORDER BY id`
	if err := s.db.Select(&reminders, query); err != nil {
		return nil, fmt.Errorf("failed to get enabled reminders: %w", err)
	}
	return reminders, nil
}

func (s *ReminderService) Get(id int) (*models.Reminder, error) {
	var reminder models.Reminder
	query := `SELECT * FROM reminders WHERE id = ?`
	if err := s.db.Get(&reminder, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reminder not found")
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (s *ReminderService) Create(req *models.ReminderRequest) (*models.Reminder, error) {
	if err := validateReminder(req); err != nil {
		return nil, err
	}

	repeatDays, _ := json.Marshal(req.RepeatDays)
	query := `INSERT INTO reminders (type, title, enabled, count, start_time, end_time, repeat_days, category, sound, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.Exec(query, req.Type, req.Title, req.Enabled, req.Count,
		req.StartTime, req.EndTime, string(repeatDays), req.Category, req.Sound, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder id: %w", err)
	}
	return s.Get(int(id))
}

func (s *ReminderService) Update(id int, req *models.ReminderRequest) (*models.Reminder, error) {
	if err := validateReminder(req); err != nil {
		return nil, err
	}

	repeatDays, _ := json.Marshal(req.RepeatDays)
	query := `UPDATE reminders SET type = ?, title = ?, enabled = ?, count = ?, start_time = ?,
			  end_time = ?, repeat_days = ?, category = ?, sound = ? WHERE id = ?`
	result, err := s.db.Exec(query, req.Type, req.Title, req.Enabled, req.Count,
		req.StartTime, req.EndTime, string(repeatDays), req.Category, req.Sound, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, fmt.Errorf("reminder not found")
	}
	return s.Get(id)
}

func (s *ReminderService) Delete(id int) error {
	result, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("reminder not found")
	}
	return nil
}

// SeedDefaults creates reminder rows from the flat notification preferences
// when the reminders table is empty, so older settings keep working.
func (s *ReminderService) SeedDefaults() error {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM reminders`); err != nil {
		return fmt.Errorf("failed to count reminders: %w", err)
	}
	if count > 0 {
		return nil
	}

	prefs, err := s.prefs.Get()
	if err != nil {
		return err
	}

	allDays := []int{1, 2, 3, 4, 5, 6, 7}

	if prefs.MoodReminderEnabled {
		startTime := prefs.ReminderTime
		if startTime == "" {
			startTime = "20:00"
		}
		_, err := s.Create(&models.ReminderRequest{
			Type:       models.ReminderTypeMood,
			Title:      "How are you feeling today?",
			Enabled:    true,
			Count:      1,
			StartTime:  startTime,
			RepeatDays: allDays,
			Category:   "mood",
			Sound:      "default",
		})
		if err != nil {
			return err
		}
	}

	if prefs.QuoteNotifEnabled {
		quoteCount := prefs.QuoteNotifCount
		if quoteCount <= 0 {
			quoteCount = 3
		}
		_, err := s.Create(&models.ReminderRequest{
			Type:       models.ReminderTypeQuote,
			Title:      "Your daily inspiration awaits",
			Enabled:    true,
			Count:      quoteCount,
			StartTime:  "09:00",
			EndTime:    "21:00",
			RepeatDays: allDays,
			Category:   "quotes",
			Sound:      "default",
		})
		if err != nil {
			return err
		}
	}

	if prefs.StreakRemEnabled {
		_, err := s.Create(&models.ReminderRequest{
			Type:       models.ReminderTypeStreak,
			Title:      "Your streak is in danger!",
			Enabled:    true,
			Count:      1,
			StartTime:  "20:00",
			RepeatDays: allDays,
			Category:   "streak",
			Sound:      "default",
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func validateReminder(req *models.ReminderRequest) error {
	switch req.Type {
	case models.ReminderTypeMood, models.ReminderTypeQuote, models.ReminderTypeStreak:
	default:
		return fmt.Errorf("invalid reminder type: %s", req.Type)
	}
	if req.StartTime == "" {
		return fmt.Errorf("start_time is required")
	}
	return nil
}
