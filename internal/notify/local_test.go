package notify

import (
	"testing"
	"time"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/models"
	"github.com/mulvri/nindo/internal/websocket"
)

func newLocalNotifier(t *testing.T) (*LocalNotifier, *database.DB) {
	t.Helper()

	db, err := database.NewDB("file::memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A pooled second connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	go hub.Run()

	n := NewLocalNotifier(db, hub, logger.New())
	n.SetClock(func() time.Time { return testNow })
	return n, db
}

func TestScheduleAssignsIDAndSortsPending(t *testing.T) {
	n, _ := newLocalNotifier(t)

	late, err := n.Schedule(Notification{FireAt: testNow.Add(2 * time.Hour), Title: "later"})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	early, err := n.Schedule(Notification{FireAt: testNow.Add(time.Hour), Title: "sooner"})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if late == "" || early == "" || late == early {
		t.Errorf("expected distinct non-empty ids, got %q and %q", late, early)
	}

	pending := n.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending notifications, got %d", len(pending))
	}
	if pending[0].Title != "sooner" {
		t.Errorf("expected soonest first, got %q", pending[0].Title)
	}
}

func TestScheduleRejectsMissingFireTime(t *testing.T) {
	n, _ := newLocalNotifier(t)

	if _, err := n.Schedule(Notification{Title: "no time"}); err == nil {
		t.Error("expected an error for a notification without a fire time")
	}
}

func TestCancelAllDropsPending(t *testing.T) {
	n, _ := newLocalNotifier(t)

	if _, err := n.Schedule(Notification{FireAt: testNow.Add(time.Hour)}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := n.CancelAll(); err != nil {
		t.Fatalf("CancelAll failed: %v", err)
	}
	if pending := n.Pending(); len(pending) != 0 {
		t.Errorf("expected empty pending set, got %d", len(pending))
	}
}

func TestSendRecordsHistory(t *testing.T) {
	n, db := newLocalNotifier(t)

	err := n.Send(Notification{Title: "Warrior's Week", Body: "Keep a 7 day streak", Type: models.NotifTypeMilestone})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var record models.NotificationRecord
	query := `SELECT id, quote_id, title, body, sent_at, type, is_read FROM notification_history LIMIT 1`
	if err := db.Get(&record, query); err != nil {
		t.Fatalf("expected a history row: %v", err)
	}
	if record.Title != "Warrior's Week" || record.Type != models.NotifTypeMilestone {
		t.Errorf("unexpected history row: %+v", record)
	}
	if record.IsRead {
		t.Error("delivered notifications must start unread")
	}
}

func TestFireDueDeliversOnlyDueNotifications(t *testing.T) {
	n, db := newLocalNotifier(t)

	if _, err := n.Schedule(Notification{FireAt: testNow.Add(-time.Minute), Title: "due"}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if _, err := n.Schedule(Notification{FireAt: testNow.Add(time.Hour), Title: "future"}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	n.fireDue()

	pending := n.Pending()
	if len(pending) != 1 || pending[0].Title != "future" {
		t.Fatalf("expected only the future notification pending, got %+v", pending)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM notification_history`); err != nil {
		t.Fatalf("failed to count history: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 delivered notification, got %d", count)
	}
}
