package notify

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mulvri/nindo/internal/dates"
	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/models"
	"github.com/mulvri/nindo/internal/services"
)

// Quote reminders never expand into more than this many daily notifications.
const maxQuotesPerDay = 10

// Scheduler turns reminder rows into scheduled notifications. Sync replaces
// the whole pending set, so calling it after any reminder change keeps the
// queue consistent without diffing.
type Scheduler struct {
	reminders *services.ReminderService
	quotes    *services.QuoteService
	prefs     *services.PrefsService
	notifier  Notifier
	log       *logger.Log

	now func() time.Time
	rnd *rand.Rand
}

func NewScheduler(reminders *services.ReminderService, quotes *services.QuoteService, prefs *services.PrefsService, notifier Notifier, log *logger.Log) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		quotes:    quotes,
		prefs:     prefs,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock overrides the scheduler clock. Used by tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// SetRand overrides the random source used for quote selection. Used by tests.
func (s *Scheduler) SetRand(rnd *rand.Rand) {
	s.rnd = rnd
}

// Sync cancels every pending notification and schedules the coming week from
// the enabled reminders. A reminder that fails to expand is logged and
// skipped; the rest still get scheduled.
func (s *Scheduler) Sync() error {
	if err := s.notifier.CancelAll(); err != nil {
		return fmt.Errorf("failed to cancel pending notifications: %w", err)
	}

	reminders, err := s.reminders.Enabled()
	if err != nil {
		return err
	}

	scheduled := 0
	for _, reminder := range reminders {
		n, err := s.schedule(&reminder)
		if err != nil {
			s.log.WithError(err).Error(fmt.Sprintf("Failed to schedule reminder %d (%s)", reminder.ID, reminder.Type))
			continue
		}
		scheduled += n
	}

	s.log.Info(fmt.Sprintf("Scheduled %d notifications from %d reminders", scheduled, len(reminders)))
	return nil
}

func (s *Scheduler) schedule(reminder *models.Reminder) (int, error) {
	switch reminder.Type {
	case models.ReminderTypeQuote:
		return s.scheduleQuotes(reminder)
	case models.ReminderTypeMood:
		return s.scheduleSingle(reminder, models.NotifTypeMoodReminder, "Take a moment to check in with yourself.")
	case models.ReminderTypeStreak:
		return s.scheduleSingle(reminder, models.NotifTypeStreakDanger, "Open the app today to keep your streak alive!")
	default:
		return 0, fmt.Errorf("unknown reminder type: %s", reminder.Type)
	}
}

// scheduleQuotes spreads Count quote notifications evenly across the
// reminder's time window on each repeat day. Notification i fires at
// start + i*window/count minutes, so the first lands on the window start and
// the last well before the window end.
func (s *Scheduler) scheduleQuotes(reminder *models.Reminder) (int, error) {
	count := reminder.Count
	if count < 1 {
		count = 1
	}
	if count > maxQuotesPerDay {
		count = maxQuotesPerDay
	}

	start, err := dates.ParseClock(reminder.StartTime)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", reminder.StartTime, err)
	}
	end, err := dates.ParseClock(reminder.EndTime)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", reminder.EndTime, err)
	}

	window := end - start
	if window <= 0 {
		// Nothing can fit in an empty or inverted window.
		return 0, nil
	}

	pool, err := s.quotePool(reminder.Category)
	if err != nil {
		return 0, err
	}
	if len(pool) == 0 {
		return 0, fmt.Errorf("no quotes available")
	}

	title := reminder.Title
	if title == "" {
		title = "Daily Inspiration"
	}

	scheduled := 0
	for _, weekday := range reminder.Weekdays() {
		for i := 0; i < count; i++ {
			minutes := start + i*window/count
			fireAt := dates.NextWeekday(s.now(), weekday, minutes/60, minutes%60)

			quote := pool[s.rnd.Intn(len(pool))]
			if len(pool) > 1 {
				// Draw without replacement so one day never repeats a quote.
				pool = removeQuote(pool, quote.ID)
			}

			quoteID := quote.ID
			_, err := s.notifier.Schedule(Notification{
				FireAt:  fireAt,
				Title:   title,
				Body:    fmt.Sprintf("%q - %s", quote.Text, quote.Author),
				Type:    models.NotifTypeQuote,
				QuoteID: &quoteID,
			})
			if err != nil {
				return scheduled, err
			}
			scheduled++
		}
	}
	return scheduled, nil
}

// scheduleSingle fires the reminder once per repeat day at its start time.
func (s *Scheduler) scheduleSingle(reminder *models.Reminder, notifType, body string) (int, error) {
	start, err := dates.ParseClock(reminder.StartTime)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", reminder.StartTime, err)
	}

	scheduled := 0
	for _, weekday := range reminder.Weekdays() {
		fireAt := dates.NextWeekday(s.now(), weekday, start/60, start%60)
		_, err := s.notifier.Schedule(Notification{
			FireAt: fireAt,
			Title:  reminder.Title,
			Body:   body,
			Type:   notifType,
		})
		if err != nil {
			return scheduled, err
		}
		scheduled++
	}
	return scheduled, nil
}

// quotePool returns the quotes eligible for quote notifications. A reminder
// category naming a mood narrows the pool to that mood; otherwise quotes
// matching the user's selected moods are preferred. When nothing matches,
// every quote is eligible.
func (s *Scheduler) quotePool(category string) ([]models.Quote, error) {
	if category != "" {
		byCategory, err := s.quotes.List(models.QuoteFilter{Mood: category})
		if err != nil {
			return nil, err
		}
		if len(byCategory) > 0 {
			return byCategory, nil
		}
	}

	all, err := s.quotes.List(models.QuoteFilter{})
	if err != nil {
		return nil, err
	}

	prefs, err := s.prefs.Get()
	if err != nil {
		return nil, err
	}

	moods := make(map[string]bool)
	for _, mood := range prefs.SelectedMoodList() {
		moods[mood] = true
	}
	if len(moods) == 0 {
		return all, nil
	}

	var matched []models.Quote
	for _, quote := range all {
		if moods[quote.Mood] {
			matched = append(matched, quote)
		}
	}
	if len(matched) == 0 {
		return all, nil
	}
	return matched, nil
}

func removeQuote(pool []models.Quote, id int) []models.Quote {
	for i, quote := range pool {
		if quote.ID == id {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
