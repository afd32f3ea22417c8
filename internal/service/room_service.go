package service

import (
	"context"
	"strings"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"

	"go.uber.org/zap"
)

type CreateRoomRequest struct {
	RoomNumber string
	RoomName   string
	Capacity   int
	Location   string
}

type RoomService struct {
	*engine
}

func NewRoomService(deps SchedulingDeps) *RoomService {
	return &RoomService{engine: newEngine(deps)}
}

// List returns every operating room ordered by room number
func (s *RoomService) List(ctx context.Context) ([]models.OperatingRoom, error) {
	return s.store.ListRooms(ctx)
}

func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest, actorID uint) (*models.OperatingRoom, error) {
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, apperr.Validation("room_number is required")
	}
	if req.Capacity == 0 {
		req.Capacity = 1
	}
	if req.Capacity < 1 {
		return nil, apperr.Validation("capacity must be at least 1")
	}

	room := &models.OperatingRoom{
		RoomNumber: number,
		RoomName:   strings.TrimSpace(req.RoomName),
		Capacity:   req.Capacity,
		Location:   strings.TrimSpace(req.Location),
		Status:     models.RoomAvailable,
	}
	err := s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		if err := tx.CreateRoom(ctx, room); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, "room_created", "room %s created", room.RoomNumber)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// SetStatus applies a staff status change. Only maintenance, unavailable and
// available may be set by hand; available hands the room back to booking-derived
// occupancy, so it may come out reserved or in_use.
func (s *RoomService) SetStatus(ctx context.Context, id uint, status models.RoomStatus, actorID uint) (*models.OperatingRoom, error) {
	switch status {
	case models.RoomMaintenance, models.RoomUnavailable, models.RoomAvailable:
	default:
		return nil, apperr.Validation("status must be one of available, maintenance, unavailable")
	}

	var room *models.OperatingRoom
	err := s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		current, err := tx.LockRoom(ctx, id)
		if err != nil {
			return err
		}

		next := status
		if status == models.RoomAvailable {
			if next, err = s.deriveRoom(ctx, tx, id); err != nil {
				return err
			}
		}
		if next != current.Status {
			if err := tx.UpdateRoomStatus(ctx, id, next); err != nil {
				return err
			}
		}
		current.Status = next
		room = current
		return s.audit(ctx, tx, actorID, "room_status_changed", "room %s set to %s", current.RoomNumber, next)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// ReconcileAll re-derives every room's occupancy flag from its bookings and
// reports how many rooms changed. Each room is fixed in its own transaction.
func (s *RoomService) ReconcileAll(ctx context.Context) (int, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, room := range rooms {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}
		if room.Status.IsManual() {
			continue
		}
		var fixed bool
		err := s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
			if _, err := tx.LockRoom(ctx, room.ID); err != nil {
				return err
			}
			var err error
			fixed, err = s.reconcileRoom(ctx, tx, room.ID)
			return err
		})
		if err != nil {
			s.log.Warn("failed to reconcile room", zap.Uint("room_id", room.ID), zap.Error(err))
			continue
		}
		if fixed {
			changed++
			s.log.Info("room status drift corrected", zap.String("room_number", room.RoomNumber))
		}
	}
	return changed, nil
}
