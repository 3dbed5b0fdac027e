package services

import (
	"testing"
	"time"

	"github.com/mulvri/nindo/internal/models"
)

func newMoodFixture(t *testing.T) (*MoodService, *PrefsService, *time.Time) {
	t.Helper()
	db := newTestDB(t)
	prefs := NewPrefsService(db)
	mood := NewMoodService(db, prefs)

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	clock := &now
	mood.SetClock(func() time.Time { return *clock })
	return mood, prefs, clock
}

func TestSelectDailyOnFreshStore(t *testing.T) {
	mood, prefs, _ := newMoodFixture(t)

	// First write ever: no preferences row exists yet, SelectDaily must
	// create it so the denormalized mood fields land somewhere.
	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	p, err := prefs.Get()
	if err != nil {
		t.Fatalf("failed to load preferences: %v", err)
	}
	if p.CurrentDayMood != "happy" {
		t.Errorf("expected current_day_mood recorded, got %q", p.CurrentDayMood)
	}
	if p.LastMoodDate == "" {
		t.Error("expected last_mood_date to be stamped")
	}

	today, err := mood.Today()
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today != "happy" {
		t.Errorf("expected today's mood happy, got %q", today)
	}
}

func TestSelectDailyUpsertsSameDay(t *testing.T) {
	mood, _, _ := newMoodFixture(t)

	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}
	if err := mood.SelectDaily("tired", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	today, err := mood.Today()
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today != "tired" {
		t.Errorf("expected re-selection to win, got %q", today)
	}

	history, err := mood.History(7)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected a single row per day, got %d", len(history))
	}
}

func TestSelectDailyRequiresMood(t *testing.T) {
	mood, _, _ := newMoodFixture(t)

	if err := mood.SelectDaily("", models.MoodSourceApp); err == nil {
		t.Error("expected an error for an empty mood")
	}
}

func TestTodayIsEmptyOnNewDay(t *testing.T) {
	mood, _, clock := newMoodFixture(t)

	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	*clock = clock.AddDate(0, 0, 1)
	today, err := mood.Today()
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today != "" {
		t.Errorf("yesterday's mood must not leak into today, got %q", today)
	}
}

func TestMoodStats(t *testing.T) {
	mood, _, clock := newMoodFixture(t)

	start := *clock
	moods := []string{"happy", "happy", "tired"}
	for i, m := range moods {
		*clock = start.AddDate(0, 0, i)
		if err := mood.SelectDaily(m, models.MoodSourceApp); err != nil {
			t.Fatalf("SelectDaily failed: %v", err)
		}
	}

	stats, err := mood.Stats(30)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalDays != 3 {
		t.Errorf("expected 3 recorded days, got %d", stats.TotalDays)
	}
	if stats.DominantMood != "happy" {
		t.Errorf("expected dominant mood happy, got %q", stats.DominantMood)
	}
	if stats.MoodCounts["happy"] != 2 || stats.MoodCounts["tired"] != 1 {
		t.Errorf("unexpected counts: %v", stats.MoodCounts)
	}
	if stats.Percentages["happy"] != 67 {
		t.Errorf("expected 67%% happy, got %d", stats.Percentages["happy"])
	}
}

func TestMoodTrendFillsEmptyDays(t *testing.T) {
	mood, _, clock := newMoodFixture(t)

	start := *clock
	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}
	*clock = start.AddDate(0, 0, 2)
	if err := mood.SelectDaily("calm", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	trend, err := mood.Trend(3)
	if err != nil {
		t.Fatalf("Trend failed: %v", err)
	}
	if len(trend) != 3 {
		t.Fatalf("expected 3 trend points, got %d", len(trend))
	}
	if trend[0].Total != 1 || trend[1].Total != 0 || trend[2].Total != 1 {
		t.Errorf("expected totals 1,0,1 oldest first, got %+v", trend)
	}
}

func TestShouldAskOncePerDay(t *testing.T) {
	mood, _, _ := newMoodFixture(t)

	ask, err := mood.ShouldAskToday()
	if err != nil {
		t.Fatalf("ShouldAskToday failed: %v", err)
	}
	if !ask {
		t.Fatal("expected a prompt before any mood is recorded")
	}

	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	ask, err = mood.ShouldAskToday()
	if err != nil {
		t.Fatalf("ShouldAskToday failed: %v", err)
	}
	if ask {
		t.Error("expected no second prompt on the same day")
	}
}

func TestShouldAskRespectsDisabledReminder(t *testing.T) {
	mood, prefs, _ := newMoodFixture(t)

	off := false
	if err := prefs.Save(&models.SavePreferencesRequest{MoodReminderEnabled: &off}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ask, err := mood.ShouldAskToday()
	if err != nil {
		t.Fatalf("ShouldAskToday failed: %v", err)
	}
	if ask {
		t.Error("expected no prompt while mood reminders are disabled")
	}
}

func TestShouldAskEveryTwoDays(t *testing.T) {
	mood, prefs, clock := newMoodFixture(t)

	freq := MoodFreq2Days
	if err := prefs.Save(&models.SavePreferencesRequest{MoodReminderFreq: &freq}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	start := *clock
	if err := mood.SelectDaily("happy", models.MoodSourceApp); err != nil {
		t.Fatalf("SelectDaily failed: %v", err)
	}

	*clock = start.AddDate(0, 0, 1)
	if ask, _ := mood.ShouldAskToday(); ask {
		t.Error("expected no prompt one day after the last mood")
	}

	*clock = start.AddDate(0, 0, 2)
	if ask, _ := mood.ShouldAskToday(); !ask {
		t.Error("expected a prompt two days after the last mood")
	}
}
