package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

const notificationInsert = `
	INSERT INTO notifications (
		user_id, type, title, message, related_entity_type, related_entity_id,
		priority, action_url, metadata
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Create inserts one notification
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, notificationInsert,
		n.UserID, n.Type, n.Title, n.Message, n.RelatedEntityType,
		n.RelatedEntityID, n.Priority, n.ActionURL, n.Metadata)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Int64("user_id", n.UserID), zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	n.ID = id
	return nil
}

// CreateBulk inserts one notification per recipient
func (r *NotificationRepository) CreateBulk(ctx context.Context, ns []*entity.Notification) error {
	exec := sqlite.ExecutorFrom(ctx, r.db)
	for _, n := range ns {
		result, err := exec.ExecContext(ctx, notificationInsert,
			n.UserID, n.Type, n.Title, n.Message, n.RelatedEntityType,
			n.RelatedEntityID, n.Priority, n.ActionURL, n.Metadata)
		if err != nil {
			r.logger.Error("Failed to create notification", zap.Int64("user_id", n.UserID), zap.Error(err))
			return fmt.Errorf("failed to create notification: %w", err)
		}
		if id, err := result.LastInsertId(); err == nil {
			n.ID = id
		}
	}
	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, related_entity_type,
			related_entity_id, is_read, read_at, priority, action_url, metadata, created_at
		FROM notifications
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var ns []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var readAt sql.NullTime
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedEntityType,
			&n.RelatedEntityID, &n.IsRead, &readAt, &n.Priority, &n.ActionURL,
			&n.Metadata, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		ns = append(ns, &n)
	}
	return ns, rows.Err()
}

// CountUnread counts the user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		UPDATE notifications SET is_read = 1, read_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		UPDATE notifications SET is_read = 1, read_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND is_read = 0
	`, userID)
	if err != nil {
		r.logger.Error("Failed to mark all notifications read", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
