package repository

import (
	"context"

	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
)

// SchedulingStore is everything the booking engine reads and writes. All
// methods of the store handed to a Transaction callback run in that transaction.
type SchedulingStore interface {
	Transaction(ctx context.Context, fn func(tx SchedulingStore) error) error

	ListRooms(ctx context.Context) ([]models.OperatingRoom, error)
	GetRoom(ctx context.Context, id uint) (*models.OperatingRoom, error)
	LockRoom(ctx context.Context, id uint) (*models.OperatingRoom, error)
	CreateRoom(ctx context.Context, room *models.OperatingRoom) error
	UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error

	GetPatient(ctx context.Context, id uint) (*models.Patient, error)

	GetSurgery(ctx context.Context, id uint) (*models.Surgery, error)
	LockSurgery(ctx context.Context, id uint) (*models.Surgery, error)
	ListSurgeries(ctx context.Context, f SurgeryFilter) ([]models.Surgery, error)
	ListDaySurgeries(ctx context.Context, date models.Date) ([]models.Surgery, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Surgery, error)
	CountSurgeriesByDate(ctx context.Context, from, to models.Date) (map[string]int, error)
	RoomOccupants(ctx context.Context, roomID uint, date models.Date) ([]models.Surgery, error)
	CreateSurgery(ctx context.Context, surgery *models.Surgery) error
	SaveSurgery(ctx context.Context, surgery *models.Surgery) error

	CreateNotification(ctx context.Context, n *models.Notification) error
	CreateAuditLog(ctx context.Context, doctorID *uint, action string, details string) error
}

// Store is the MySQL SchedulingStore, composed from the table repositories
// bound to one *gorm.DB (the pool, or an open transaction).
type Store struct {
	db *gorm.DB
	*RoomRepository
	*DoctorRepository
	*PatientRepository
	*SurgeryRepository
	*NotificationRepository
	*AuditRepository
}

var _ SchedulingStore = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:                     db,
		RoomRepository:         NewRoomRepo(db),
		DoctorRepository:       NewDoctorRepo(db),
		PatientRepository:      NewPatientRepo(db),
		SurgeryRepository:      NewSurgeryRepo(db),
		NotificationRepository: NewNotificationRepo(db),
		AuditRepository:        NewAuditRepo(db),
	}
}

// Transaction runs fn in a database transaction; any error from fn rolls back
// every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx SchedulingStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks database connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
