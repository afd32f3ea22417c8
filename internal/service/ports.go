package service

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/models"
)

// EventPublisher sends domain events to a broker topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SlotLocker holds a short-lived claim on a room slot across processes.
type SlotLocker interface {
	AcquireSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, ttl time.Duration) (string, bool, error)
	ReleaseSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, token string) error
}

// AuditLogger records who did what.
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, doctorID *uint, action string, details string) error
}
