package services

import (
	"fmt"
	"time"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/models"
)

// Milestones is the fixed streak-threshold table, in ascending order. The
// unlocker walks it top to bottom, so it must stay sorted.
var Milestones = []models.Milestone{
	{Streak: 3, ID: "streak_3", Icon: "🔥", Title: "Determined Genin", Desc: "Keep a 3 day streak"},
	{Streak: 7, ID: "streak_7", Icon: "⚔️", Title: "Warrior's Week", Desc: "Keep a 7 day streak"},
	{Streak: 14, ID: "streak_14", Icon: "🌀", Title: "Persistent Chunin", Desc: "Keep a 14 day streak"},
	{Streak: 30, ID: "streak_30", Icon: "🏔️", Title: "Unshakable Will", Desc: "Keep a 30 day streak"},
	{Streak: 60, ID: "streak_60", Icon: "🎖️", Title: "Master of Discipline", Desc: "Keep a 60 day streak"},
	{Streak: 100, ID: "streak_100", Icon: "👑", Title: "Shinobi Legend", Desc: "Keep a 100 day streak"},
}

type AchievementService struct {
	db  *database.DB
	now func() time.Time
}

func NewAchievementService(db *database.DB) *AchievementService {
	return &AchievementService{db: db, now: time.Now}
}

// SetClock overrides the service clock. Used by tests.
func (s *AchievementService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckUnlocks inserts an unlock row for every milestone at or below
// streakCount that is not unlocked yet, and returns the newly unlocked
// milestones. Re-running with the same count returns nothing: unlock rows are
// permanent and never duplicated.
func (s *AchievementService) CheckUnlocks(streakCount int) ([]models.Milestone, error) {
	unlocked, err := s.unlockedSet()
	if err != nil {
		return nil, err
	}

	var newly []models.Milestone
	for _, m := range Milestones {
		if m.Streak > streakCount {
			break
		}
		if unlocked[m.ID] {
			continue
		}

		query := `INSERT OR IGNORE INTO achievements (achievement_id, unlocked_at, notified) VALUES (?, ?, FALSE)`
		if _, err := s.db.Exec(query, m.ID, s.now()); err != nil {
			return newly, fmt.Errorf("failed to unlock achievement %s: %w", m.ID, err)
		}
		newly = append(newly, m)
	}

	return newly, nil
}

func (s *AchievementService) unlockedSet() (map[string]bool, error) {
	var ids []string
	if err := s.db.Select(&ids, `SELECT achievement_id FROM achievements`); err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// List returns the full milestone table joined with the user's unlock state,
// for the achievements screen.
func (s *AchievementService) List() ([]models.AchievementView, error) {
	var rows []models.Achievement
	query := `SELECT id, achievement_id, unlocked_at, notified FROM achievements ORDER BY unlocked_at`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}

	byID := make(map[string]models.Achievement, len(rows))
	for _, row := range rows {
		byID[row.AchievementID] = row
	}

	views := make([]models.AchievementView, 0, len(Milestones))
	for _, m := range Milestones {
		view := models.AchievementView{Milestone: m}
		if row, ok := byID[m.ID]; ok {
			at := row.UnlockedAt
			view.Unlocked = true
			view.UnlockedAt = &at
			view.Notified = row.Notified
		}
		views = append(views, view)
	}

	return views, nil
}

// Unnotified returns unlocks the user has not been congratulated for yet.
func (s *AchievementService) Unnotified() ([]models.Achievement, error) {
	var rows []models.Achievement
	query := `SELECT id, achievement_id, unlocked_at, notified FROM achievements WHERE notified = FALSE ORDER BY unlocked_at`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to get unnotified achievements: %w", err)
	}
	return rows, nil
}

// MarkNotified flags an unlock as already shown to the user.
func (s *AchievementService) MarkNotified(achievementID string) error {
	query := `UPDATE achievements SET notified = TRUE WHERE achievement_id = ?`
	if _, err := s.db.Exec(query, achievementID); err != nil {
		return fmt.Errorf("failed to mark achievement notified: %w", err)
	}
	return nil
}

// MilestoneByID looks up a milestone definition. Unknown ids indicate a
// programmer error: the table is fixed.
func MilestoneByID(id string) (models.Milestone, bool) {
	for _, m := range Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return models.Milestone{}, false
}
