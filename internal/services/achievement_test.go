package services

import (
	"testing"
	"time"
)

func newAchievementFixture(t *testing.T) *AchievementService {
	t.Helper()
	s := NewAchievementService(newTestDB(t))
	s.SetClock(func() time.Time { return time.Date(2025, 6, 7, 12, 0, 0, 0, time.Local) })
	return s
}

func TestCheckUnlocksReturnsEveryReachedMilestone(t *testing.T) {
	s := newAchievementFixture(t)

	newly, err := s.CheckUnlocks(7)
	if err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}
	if len(newly) != 2 {
		t.Fatalf("expected 2 milestones at streak 7, got %d", len(newly))
	}
	if newly[0].ID != "streak_3" || newly[1].ID != "streak_7" {
		t.Errorf("expected streak_3 then streak_7, got %v", newly)
	}
}

func TestCheckUnlocksIsIdempotent(t *testing.T) {
	s := newAchievementFixture(t)

	if _, err := s.CheckUnlocks(3); err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}
	newly, err := s.CheckUnlocks(3)
	if err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}
	if len(newly) != 0 {
		t.Errorf("second pass must unlock nothing, got %v", newly)
	}
}

func TestCheckUnlocksBelowFirstThreshold(t *testing.T) {
	s := newAchievementFixture(t)

	newly, err := s.CheckUnlocks(2)
	if err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}
	if len(newly) != 0 {
		t.Errorf("streak 2 must unlock nothing, got %v", newly)
	}
}

func TestListJoinsUnlockState(t *testing.T) {
	s := newAchievementFixture(t)

	if _, err := s.CheckUnlocks(3); err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}

	views, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != len(Milestones) {
		t.Fatalf("expected %d views, got %d", len(Milestones), len(views))
	}
	if !views[0].Unlocked || views[0].UnlockedAt == nil {
		t.Errorf("streak_3 should be unlocked: %+v", views[0])
	}
	for _, view := range views[1:] {
		if view.Unlocked {
			t.Errorf("%s should still be locked", view.ID)
		}
	}
}

func TestMarkNotified(t *testing.T) {
	s := newAchievementFixture(t)

	if _, err := s.CheckUnlocks(7); err != nil {
		t.Fatalf("CheckUnlocks failed: %v", err)
	}

	pending, err := s.Unnotified()
	if err != nil {
		t.Fatalf("Unnotified failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 unnotified unlocks, got %d", len(pending))
	}

	if err := s.MarkNotified("streak_3"); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	pending, err = s.Unnotified()
	if err != nil {
		t.Fatalf("Unnotified failed: %v", err)
	}
	if len(pending) != 1 || pending[0].AchievementID != "streak_7" {
		t.Errorf("expected only streak_7 pending, got %+v", pending)
	}
}
