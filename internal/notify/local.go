package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/websocket"
)

// LocalNotifier keeps scheduled notifications in memory and fires them when
// their time comes. Firing writes a notification_history row and broadcasts
// the notification over the websocket hub.
type LocalNotifier struct {
	db  *database.DB
	hub *websocket.Hub
	log *logger.Log

	mu      sync.Mutex
	pending map[string]Notification
	wake    chan struct{}
	now     func() time.Time
}

func NewLocalNotifier(db *database.DB, hub *websocket.Hub, log *logger.Log) *LocalNotifier {
	return &LocalNotifier{
		db:      db,
		hub:     hub,
		log:     log,
		pending: make(map[string]Notification),
		wake:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

// SetClock overrides the notifier clock. Used by tests.
func (n *LocalNotifier) SetClock(now func() time.Time) {
	n.now = now
}

func (n *LocalNotifier) Schedule(notif Notification) (string, error) {
	if notif.ID == "" {
		notif.ID = uuid.New().String()
	}
	if notif.FireAt.IsZero() {
		return "", fmt.Errorf("notification has no fire time")
	}

	n.mu.Lock()
	n.pending[notif.ID] = notif
	n.mu.Unlock()

	n.poke()
	return notif.ID, nil
}

func (n *LocalNotifier) Send(notif Notification) error {
	if notif.ID == "" {
		notif.ID = uuid.New().String()
	}
	return n.deliver(notif)
}

func (n *LocalNotifier) CancelAll() error {
	n.mu.Lock()
	n.pending = make(map[string]Notification)
	n.mu.Unlock()

	n.poke()
	return nil
}

func (n *LocalNotifier) Pending() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, 0, len(n.pending))
	for _, notif := range n.pending {
		out = append(out, notif)
	}
	sortByFireTime(out)
	return out
}

// Run dispatches pending notifications until the context is cancelled. Call
// it from its own goroutine.
func (n *LocalNotifier) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		next, ok := n.next()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		if ok {
			timer.Reset(next.FireAt.Sub(n.now()))
		} else {
			timer.Reset(time.Hour)
		}

		select {
		case <-ctx.Done():
			return
		case <-n.wake:
		case <-timer.C:
			n.fireDue()
		}
	}
}

func (n *LocalNotifier) next() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var next Notification
	found := false
	for _, notif := range n.pending {
		if !found || notif.FireAt.Before(next.FireAt) {
			next = notif
			found = true
		}
	}
	return next, found
}

func (n *LocalNotifier) fireDue() {
	now := n.now()

	n.mu.Lock()
	var due []Notification
	for id, notif := range n.pending {
		if !notif.FireAt.After(now) {
			due = append(due, notif)
			delete(n.pending, id)
		}
	}
	n.mu.Unlock()

	sortByFireTime(due)
	for _, notif := range due {
		if err := n.deliver(notif); err != nil {
			n.log.WithError(err).Error(fmt.Sprintf("Failed to deliver notification %s", notif.ID))
		}
	}
}

func (n *LocalNotifier) deliver(notif Notification) error {
	query := `INSERT INTO notification_history (quote_id, title, body, sent_at, type, is_read)
			  VALUES (?, ?, ?, ?, ?, FALSE)`
	if _, err := n.db.Exec(query, notif.QuoteID, notif.Title, notif.Body, n.now(), notif.Type); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	n.hub.Broadcast("notification", notif)
	n.log.Notify(notif.Title, notif.Body)
	return nil
}

func (n *LocalNotifier) poke() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func sortByFireTime(list []Notification) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].FireAt.Before(list[j].FireAt)
	})
}
