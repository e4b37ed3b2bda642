package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/badigital/ba-workflow/internal/apperror"
	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
)

// NotificationService exposes each user's in-app notification feed
type NotificationService struct {
	notifications port.NotificationRepository
}

// NewNotificationService creates a NotificationService
func NewNotificationService(notifications port.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns a page of the actor's notifications with the unread total
func (s *NotificationService) List(ctx context.Context, actor port.Actor, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.notifications.ListByUser(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

// MarkRead marks one of the actor's notifications as read. Marking someone
// else's notification reads as not-found, not forbidden.
func (s *NotificationService) MarkRead(ctx context.Context, actor port.Actor, id int64) error {
	err := s.notifications.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFound("notification", id)
	}
	return err
}

// MarkAllRead marks every unread notification of the actor as read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor port.Actor) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}
