package models

import "time"

// AuditLog represents the audit_logs table
// Used for tracking booking and room administration actions
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  *uint     `gorm:"index" json:"doctor_id"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Doctor    *Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
