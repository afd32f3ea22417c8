package models

import "time"

const (
	NotificationSurgeryUpdate    = "surgery_update"
	NotificationSurgeryDelayed   = "surgery_delayed"
	NotificationSurgeryCancelled = "surgery_cancelled"
	NotificationSurgeryCompleted = "surgery_completed"
)

// Notification represents the notifications table
type Notification struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	DoctorID         uint       `gorm:"not null;index" json:"doctor_id"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	NotificationType string     `gorm:"size:50;not null" json:"notification_type"`
	Priority         string     `gorm:"type:enum('low','normal','high','urgent');default:'normal'" json:"priority"`
	RelatedEntityID  *uint      `json:"related_entity_id,omitempty"`
	IsRead           bool       `gorm:"default:false" json:"is_read"`
	ReadAt           *time.Time `json:"read_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
