package repository

import (
	"context"

	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, doctorID *uint, action string, details string) error {
	log := &models.AuditLog{
		DoctorID: doctorID,
		Action:   action,
		Details:  details,
	}
	return storeErr("create audit log", r.db.WithContext(ctx).Create(log).Error)
}
