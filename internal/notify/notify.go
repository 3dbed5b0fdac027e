// Package notify schedules and delivers local notifications. Scheduled
// notifications live in memory until they fire; fired notifications are
// recorded in notification_history and pushed to connected clients.
package notify

import "time"

// Notification is a single scheduled or delivered notification.
type Notification struct {
	ID      string            `json:"id"`
	FireAt  time.Time         `json:"fire_at"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Type    string            `json:"type"`
	QuoteID *int              `json:"quote_id,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

// Notifier delivers notifications. The scheduler talks to this interface so
// tests can capture what would fire without a clock or a database.
type Notifier interface {
	// Schedule queues a notification to fire at n.FireAt and returns its id.
	Schedule(n Notification) (string, error)
	// Send delivers a notification immediately.
	Send(n Notification) error
	// CancelAll drops every pending notification.
	CancelAll() error
	// Pending returns the queued notifications, soonest first.
	Pending() []Notification
}

// Noop discards everything. Used when notifications are disabled in config.
type Noop struct{}

func (Noop) Schedule(Notification) (string, error) { return "", nil }
func (Noop) Send(Notification) error               { return nil }
func (Noop) CancelAll() error                      { return nil }
func (Noop) Pending() []Notification               { return nil }
