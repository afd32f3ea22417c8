package service

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/models"
)

const notificationListLimit = 50

type NotificationStore interface {
	ListForDoctor(ctx context.Context, doctorID uint, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, doctorID uint) (int64, error)
	MarkRead(ctx context.Context, id, doctorID uint, at time.Time) error
}

type NotificationService struct {
	notifications NotificationStore
	clock         func() time.Time
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications, clock: time.Now}
}

// List returns the doctor's latest notifications, newest first
func (s *NotificationService) List(ctx context.Context, doctorID uint) ([]models.Notification, error) {
	return s.notifications.ListForDoctor(ctx, doctorID, notificationListLimit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, doctorID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, doctorID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, doctorID uint) error {
	return s.notifications.MarkRead(ctx, id, doctorID, s.clock().UTC())
}
