package repository

import (
	"context"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SurgeryOrder is the sort of a surgery listing.
type SurgeryOrder int

const (
	LatestSlotFirst SurgeryOrder = iota
	EarliestSlotFirst
	RecentlyUpdatedFirst
)

// SurgeryFilter narrows a surgery listing. From keeps surgeries on or after
// that date; a zero Limit means no limit.
type SurgeryFilter struct {
	Status    models.SurgeryStatus
	Date      *models.Date
	From      *models.Date
	DoctorID  *uint
	PatientID *uint
	Order     SurgeryOrder
	Limit     int
}

// DoctorStats summarises the surgeries a doctor is on record for.
type DoctorStats struct {
	TotalSurgeries    int64 `json:"total_surgeries"`
	TotalPatients     int64 `json:"total_patients"`
	UpcomingSurgeries int64 `json:"upcoming_surgeries"`
}

// OverlapQuery selects the active bookings of a room that intersect
// [Start, Start+Duration) on Date. ExcludeID skips the surgery being edited.
type OverlapQuery struct {
	RoomID    uint
	Date      models.Date
	Start     models.ClockTime
	Duration  int
	ExcludeID uint
}

type SurgeryRepository struct {
	db *gorm.DB
}

func NewSurgeryRepo(db *gorm.DB) *SurgeryRepository {
	return &SurgeryRepository{db: db}
}

func (r *SurgeryRepository) GetSurgery(ctx context.Context, id uint) (*models.Surgery, error) {
	return r.first(ctx, r.db, id)
}

func (r *SurgeryRepository) LockSurgery(ctx context.Context, id uint) (*models.Surgery, error) {
	return r.first(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *SurgeryRepository) first(ctx context.Context, db *gorm.DB, id uint) (*models.Surgery, error) {
	var surgery models.Surgery
	err := db.WithContext(ctx).First(&surgery, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("surgery not found")
		}
		return nil, storeErr("get surgery", err)
	}
	return &surgery, nil
}

// ListSurgeries returns surgeries matching f in f.Order
func (r *SurgeryRepository) ListSurgeries(ctx context.Context, f SurgeryFilter) ([]models.Surgery, error) {
	q := r.db.WithContext(ctx).Model(&models.Surgery{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		q = q.Where("scheduled_date = ?", *f.Date)
	}
	if f.From != nil {
		q = q.Where("scheduled_date >= ?", *f.From)
	}
	if f.DoctorID != nil {
		q = q.Where("doctor_id = ?", *f.DoctorID)
	}
	if f.PatientID != nil {
		q = q.Where("patient_id = ?", *f.PatientID)
	}

	switch f.Order {
	case EarliestSlotFirst:
		q = q.Order("scheduled_date ASC, start_minute ASC")
	case RecentlyUpdatedFirst:
		q = q.Order("updated_at DESC, id DESC")
	default:
		q = q.Order("scheduled_date DESC, start_minute DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var surgeries []models.Surgery
	err := q.Find(&surgeries).Error
	if err != nil {
		return nil, storeErr("list surgeries", err)
	}
	return surgeries, nil
}

// DoctorSurgeryStats counts a doctor's surgeries, distinct patients and
// scheduled surgeries on or after today.
func (r *SurgeryRepository) DoctorSurgeryStats(ctx context.Context, doctorID uint, today models.Date) (*DoctorStats, error) {
	var stats DoctorStats
	err := r.db.WithContext(ctx).Model(&models.Surgery{}).
		Select("COUNT(*) AS total_surgeries, COUNT(DISTINCT patient_id) AS total_patients, "+
			"COALESCE(SUM(status = ? AND scheduled_date >= ?), 0) AS upcoming_surgeries", models.SurgeryScheduled, today).
		Where("doctor_id = ?", doctorID).
		Scan(&stats).Error
	if err != nil {
		return nil, storeErr("doctor surgery stats", err)
	}
	return &stats, nil
}

// ListDaySurgeries returns every surgery with a room on date, with its patient, by start time
func (r *SurgeryRepository) ListDaySurgeries(ctx context.Context, date models.Date) ([]models.Surgery, error) {
	var surgeries []models.Surgery
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("scheduled_date = ? AND operating_room_id IS NOT NULL", date).
		Order("start_minute ASC, id ASC").
		Find(&surgeries).Error
	if err != nil {
		return nil, storeErr("list day surgeries", err)
	}
	return surgeries, nil
}

func (r *SurgeryRepository) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Surgery, error) {
	end := q.Start.Add(q.Duration)
	tx := r.db.WithContext(ctx).
		Where("operating_room_id = ? AND scheduled_date = ?", q.RoomID, q.Date).
		Where("status NOT IN ?", models.InactiveStatuses).
		Where("start_minute < ? AND start_minute + estimated_duration_minutes > ?", end, q.Start)
	if q.ExcludeID != 0 {
		tx = tx.Where("id <> ?", q.ExcludeID)
	}

	var surgeries []models.Surgery
	if err := tx.Order("start_minute ASC").Find(&surgeries).Error; err != nil {
		return nil, storeErr("find overlapping surgeries", err)
	}
	return surgeries, nil
}

// CountSurgeriesByDate counts surgeries per day in [from, to], keyed by YYYY-MM-DD
func (r *SurgeryRepository) CountSurgeriesByDate(ctx context.Context, from, to models.Date) (map[string]int, error) {
	var rows []struct {
		ScheduledDate models.Date
		Total         int
	}
	err := r.db.WithContext(ctx).Model(&models.Surgery{}).
		Select("scheduled_date, COUNT(*) AS total").
		Where("scheduled_date BETWEEN ? AND ?", from, to).
		Group("scheduled_date").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("count surgeries by date", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ScheduledDate.String()] = row.Total
	}
	return counts, nil
}

// RoomOccupants returns the active surgeries that can hold roomID on date:
// those booked on date plus any still in progress from an earlier day.
func (r *SurgeryRepository) RoomOccupants(ctx context.Context, roomID uint, date models.Date) ([]models.Surgery, error) {
	var surgeries []models.Surgery
	err := r.db.WithContext(ctx).
		Where("operating_room_id = ?", roomID).
		Where("status NOT IN ?", models.InactiveStatuses).
		Where("scheduled_date = ? OR status = ?", date, models.SurgeryInProgress).
		Order("start_minute ASC").
		Find(&surgeries).Error
	if err != nil {
		return nil, storeErr("list room occupants", err)
	}
	return surgeries, nil
}

// CreateSurgery inserts a booking. The active-slot unique key turns a
// concurrent double booking into a Conflict.
func (r *SurgeryRepository) CreateSurgery(ctx context.Context, surgery *models.Surgery) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(surgery).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("operating room not available at this time")
		}
		return storeErr("create surgery", err)
	}
	return nil
}

func (r *SurgeryRepository) SaveSurgery(ctx context.Context, surgery *models.Surgery) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(surgery).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("operating room not available at this time")
		}
		return storeErr("save surgery", err)
	}
	return nil
}
