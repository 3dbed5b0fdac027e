package services

import (
	"testing"

	"github.com/mulvri/nindo/internal/models"
)

func newReminderFixture(t *testing.T) (*ReminderService, *PrefsService) {
	t.Helper()
	db := newTestDB(t)
	prefs := NewPrefsService(db)
	return NewReminderService(db, prefs), prefs
}

func TestSeedDefaultsFromPreferences(t *testing.T) {
	reminders, _ := newReminderFixture(t)

	if err := reminders.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	list, err := reminders.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Default preferences enable mood and streak reminders but not quotes.
	byType := make(map[string]models.Reminder)
	for _, r := range list {
		byType[r.Type] = r
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 seeded reminders, got %d (%v)", len(list), list)
	}

	mood, ok := byType[models.ReminderTypeMood]
	if !ok {
		t.Fatal("expected a mood reminder")
	}
	if mood.StartTime != "08:00" {
		t.Errorf("mood reminder should inherit reminder_time, got %s", mood.StartTime)
	}

	streak, ok := byType[models.ReminderTypeStreak]
	if !ok {
		t.Fatal("expected a streak reminder")
	}
	if streak.StartTime != "20:00" {
		t.Errorf("streak reminder should default to 20:00, got %s", streak.StartTime)
	}

	if len(mood.Weekdays()) != 7 {
		t.Errorf("seeded reminders should repeat every day, got %v", mood.Weekdays())
	}
}

func TestSeedDefaultsRunsOnce(t *testing.T) {
	reminders, _ := newReminderFixture(t)

	if err := reminders.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if err := reminders.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	list, err := reminders.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("reseeding must not duplicate reminders, got %d", len(list))
	}
}

func TestSeedDefaultsIncludesQuoteReminder(t *testing.T) {
	reminders, prefs := newReminderFixture(t)

	on := true
	count := 3
	err := prefs.Save(&models.SavePreferencesRequest{
		QuoteNotifEnabled: &on,
		QuoteNotifCount:   &count,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := reminders.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	list, err := reminders.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, r := range list {
		if r.Type == models.ReminderTypeQuote {
			if r.Count != 3 || r.StartTime != "09:00" || r.EndTime != "21:00" {
				t.Errorf("unexpected quote reminder: %+v", r)
			}
			return
		}
	}
	t.Error("expected a quote reminder to be seeded")
}

func TestCreateValidatesType(t *testing.T) {
	reminders, _ := newReminderFixture(t)

	_, err := reminders.Create(&models.ReminderRequest{Type: "bogus", StartTime: "09:00"})
	if err == nil {
		t.Error("expected an error for an unknown reminder type")
	}

	_, err = reminders.Create(&models.ReminderRequest{Type: models.ReminderTypeMood})
	if err == nil {
		t.Error("expected an error for a missing start time")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	reminders, _ := newReminderFixture(t)

	created, err := reminders.Create(&models.ReminderRequest{
		Type:      models.ReminderTypeMood,
		Title:     "Check in",
		Enabled:   true,
		StartTime: "09:00",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := reminders.Update(created.ID, &models.ReminderRequest{
		Type:      models.ReminderTypeMood,
		Title:     "Check in",
		Enabled:   false,
		StartTime: "10:30",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Enabled || updated.StartTime != "10:30" {
		t.Errorf("unexpected reminder after update: %+v", updated)
	}

	if err := reminders.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := reminders.Delete(created.ID); err == nil {
		t.Error("expected an error deleting a missing reminder")
	}
}
