package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/social-be/internal/models"
)

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	CreateNotification(ctx context.Context, userID, notificationType, message string) error
	GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationService provides business logic for notification management.
type NotificationService struct {
	db *sql.DB
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotification records a new notification for a user.
func (s *NotificationService) CreateNotification(ctx context.Context, userID, notificationType, message string) error {
	notification := models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, type, message, created_at) VALUES (?, ?, ?, ?, ?)",
		notification.ID, notification.UserID, notification.Type, notification.Message, notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetNotificationsForUser retrieves the most recent notifications for a user.
func (s *NotificationService) GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, type, message, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// DeleteOlderThan removes notifications created before the cutoff and reports how many were removed.
func (s *NotificationService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
