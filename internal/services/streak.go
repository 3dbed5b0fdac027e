package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/dates"
	"github.com/mulvri/nindo/internal/models"
)

// XP deltas applied by the streak engine.
const (
	xpFirstOpen     = 10
	xpDailyOpen     = 20
	xpBrokenPenalty = 10
)

// graceCutoffHour is the end of the Warrior's Grace window: an opening one
// day late still counts as consecutive while the local wall clock reads
// before 03:00.
const graceCutoffHour = 3

// StreakService decides, once per calendar day, whether an app opening
// continues, forgives or breaks the streak, and keeps the day-by-day audit
// trail. All mutation of the progress columns goes through RecordOpening.
type StreakService struct {
	db           *database.DB
	prefs        *PrefsService
	achievements *AchievementService

	mu  sync.Mutex
	now func() time.Time
}

func NewStreakService(db *database.DB, prefs *PrefsService, achievements *AchievementService) *StreakService {
	return &StreakService{
		db:           db,
		prefs:        prefs,
		achievements: achievements,
		now:          time.Now,
	}
}

// SetClock overrides the service clock. Used by tests.
func (s *StreakService) SetClock(now func() time.Time) {
	s.now = now
}

// RecordOpening processes an "app was opened right now" event. Calling it
// again within the same calendar day is a no-op. The progress update and the
// day-record inserts are committed in a single transaction so a failure never
// leaves them half applied.
func (s *StreakService) RecordOpening() (*models.StreakUpdateResult, []models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.prefs.Get()
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	today := dates.Midnight(now)
	todayStr := dates.FormatISO(today)

	result := &models.StreakUpdateResult{
		PreviousStreak: prefs.StreakCount,
		NewStreak:      prefs.StreakCount,
	}

	if prefs.LastOpeningDate == nil {
		// First opening ever
		result.NewStreak = 1
		err := s.commit(prefs.ID, func(tx *txWriter) {
			tx.progress(today, 1, max(prefs.BestStreak, 1), prefs.TotalDaysOpened+1, prefs.XP+xpFirstOpen)
			tx.day(todayStr, models.StreakStatusCompleted, 1)
		})
		if err != nil {
			return nil, nil, err
		}
		return result, nil, nil
	}

	diffDays := dates.DaysBetween(*prefs.LastOpeningDate, today)

	switch {
	case diffDays == 0:
		// Already recorded today
		return result, nil, nil

	case diffDays == 1 || (diffDays == 2 && now.Hour() < graceCutoffHour):
		newStreak := prefs.StreakCount + 1
		status := models.StreakStatusCompleted
		if diffDays == 2 {
			// Warrior's Grace: forgive a single late-night lapse
			status = models.StreakStatusGrace
			result.WasGracePeriod = true
			result.MissedDays = 1
		}

		err := s.commit(prefs.ID, func(tx *txWriter) {
			tx.progress(today, newStreak, max(prefs.BestStreak, newStreak), prefs.TotalDaysOpened+1, prefs.XP+xpDailyOpen)
			tx.day(todayStr, status, newStreak)
		})
		if err != nil {
			return nil, nil, err
		}

		result.NewStreak = newStreak
		newly, err := s.achievements.CheckUnlocks(newStreak)
		if err != nil {
			return result, nil, err
		}
		return result, newly, nil

	default:
		// Streak broken: backfill the skipped dates, then start over at 1.
		// Best streak is untouched.
		result.StreakBroken = true
		result.NewStreak = 1
		result.MissedDays = diffDays - 1

		lastDay := dates.Midnight(*prefs.LastOpeningDate)
		err := s.commit(prefs.ID, func(tx *txWriter) {
			for i := 1; i < diffDays; i++ {
				missed := lastDay.AddDate(0, 0, i)
				tx.day(dates.FormatISO(missed), models.StreakStatusMissed, 0)
			}
			tx.progressKeepBest(today, 1, prefs.TotalDaysOpened+1, max(0, prefs.XP-xpBrokenPenalty))
			tx.day(todayStr, models.StreakStatusCompleted, 1)
		})
		if err != nil {
			return nil, nil, err
		}
		return result, nil, nil
	}
}

// History returns streak day records covering the last `days` calendar days,
// newest first.
func (s *StreakService) History(days int) ([]models.StreakDay, error) {
	if days <= 0 {
		days = 7
	}

	start := dates.Midnight(s.now()).AddDate(0, 0, -(days - 1))

	var history []models.StreakDay
	query := `SELECT id, date, status, streak_count_at_day FROM streak_history WHERE date >= ? ORDER BY date DESC`
	if err := s.db.Select(&history, query, dates.FormatISO(start)); err != nil {
		return nil, fmt.Errorf("failed to get streak history: %w", err)
	}
	return history, nil
}

// txWriter batches the progress update and day-record inserts that must land
// together.
type txWriter struct {
	prefsID int
	ops     []func(tx database.Execer) error
}

func (w *txWriter) progress(lastOpening time.Time, streak, best, totalDays, xp int) {
	w.ops = append(w.ops, func(tx database.Execer) error {
		query := `UPDATE user_preferences
				  SET last_opening_date = ?, streak_count = ?, best_streak = ?, total_days_opened = ?, xp = ?
				  WHERE id = ?`
		_, err := tx.Exec(query, lastOpening, streak, best, totalDays, xp, w.prefsID)
		return err
	})
}

// progressKeepBest updates everything except best_streak (the broken path).
func (w *txWriter) progressKeepBest(lastOpening time.Time, streak, totalDays, xp int) {
	w.ops = append(w.ops, func(tx database.Execer) error {
		query := `UPDATE user_preferences
				  SET last_opening_date = ?, streak_count = ?, total_days_opened = ?, xp = ?
				  WHERE id = ?`
		_, err := tx.Exec(query, lastOpening, streak, totalDays, xp, w.prefsID)
		return err
	})
}

// day appends an audit record for a date unless one already exists; past
// records are never overwritten.
func (w *txWriter) day(date, status string, streakCount int) {
	w.ops = append(w.ops, func(tx database.Execer) error {
		query := `INSERT OR IGNORE INTO streak_history (date, status, streak_count_at_day) VALUES (?, ?, ?)`
		_, err := tx.Exec(query, date, status, streakCount)
		return err
	})
}

func (s *StreakService) commit(prefsID int, build func(*txWriter)) error {
	w := &txWriter{prefsID: prefsID}
	build(w)

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin streak update: %w", err)
	}
	defer tx.Rollback()

	for _, op := range w.ops {
		if err := op(tx); err != nil {
			return fmt.Errorf("failed to apply streak update: %w", err)
		}
	}

	return tx.Commit()
}
