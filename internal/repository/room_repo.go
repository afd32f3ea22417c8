package repository

import (
	"context"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListRooms retrieves all operating rooms ordered by room number
func (r *RoomRepository) ListRooms(ctx context.Context) ([]models.OperatingRoom, error) {
	var rooms []models.OperatingRoom
	if err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, storeErr("list rooms", err)
	}
	return rooms, nil
}

func (r *RoomRepository) GetRoom(ctx context.Context, id uint) (*models.OperatingRoom, error) {
	return r.first(ctx, r.db, id)
}

// LockRoom reads the room with SELECT ... FOR UPDATE. Every write that can
// change a room's bookings takes this lock first, so bookings for one room
// are serialized while other rooms proceed independently.
func (r *RoomRepository) LockRoom(ctx context.Context, id uint) (*models.OperatingRoom, error) {
	return r.first(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *RoomRepository) first(ctx context.Context, db *gorm.DB, id uint) (*models.OperatingRoom, error) {
	var room models.OperatingRoom
	err := db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("operating room not found")
		}
		return nil, storeErr("get room", err)
	}
	return &room, nil
}

func (r *RoomRepository) CreateRoom(ctx context.Context, room *models.OperatingRoom) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("room number %s already exists", room.RoomNumber)
		}
		return storeErr("create room", err)
	}
	return nil
}

func (r *RoomRepository) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	res := r.db.WithContext(ctx).Model(&models.OperatingRoom{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return storeErr("update room status", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.OperatingRoom{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return storeErr("update room status", err)
		}
		if count == 0 {
			return apperr.NotFound("operating room not found")
		}
	}
	return nil
}
