package repository

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return storeErr("create notification", r.db.WithContext(ctx).Create(n).Error)
}

// ListForDoctor returns the newest notifications of a doctor
func (r *NotificationRepository) ListForDoctor(ctx context.Context, doctorID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, doctorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("doctor_id = ? AND is_read = ?", doctorID, false).
		Count(&count).Error
	if err != nil {
		return 0, storeErr("count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks a notification read; notifications of other doctors are NotFound
func (r *NotificationRepository) MarkRead(ctx context.Context, id, doctorID uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return storeErr("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
