package services

import (
	"fmt"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/models"
)

// NotificationService reads and maintains the delivered-notification log.
type NotificationService struct {
	db *database.DB
}

func NewNotificationService(db *database.DB) *NotificationService {
	return &NotificationService{db: db}
}

// History returns delivered notifications, newest first.
func (s *NotificationService) History(limit int) ([]models.NotificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var history []models.NotificationRecord
	query := `SELECT id, quote_id, title, body, sent_at, type, is_read
			  FROM notification_history ORDER BY sent_at DESC LIMIT ?`
	if err := s.db.Select(&history, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get notification history: %w", err)
	}
	return history, nil
}

func (s *NotificationService) UnreadCount() (int, error) {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM notification_history WHERE is_read = FALSE`); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(id int) error {
	result, err := s.db.Exec(`UPDATE notification_history SET is_read = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead() error {
	if _, err := s.db.Exec(`UPDATE notification_history SET is_read = TRUE`); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) Delete(id int) error {
	result, err := s.db.Exec(`DELETE FROM notification_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM notification_history`); err != nil {
		return fmt.Errorf("failed to clear notification history: %w", err)
	}
	return nil
}
