package service

import (
	"context"
	"fmt"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/events"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"

	"go.uber.org/zap"
)

// SchedulingDeps wires the booking engine. Locker and Events are optional.
type SchedulingDeps struct {
	Store        repository.SchedulingStore
	Locker       SlotLocker
	Events       EventPublisher
	SurgeryTopic string
	HoldTTL      time.Duration
	Location     *time.Location
	Clock        func() time.Time
	Log          *zap.Logger
}

// engine holds the rules shared by every operation that touches bookings:
// the overlap gate, room occupancy reconciliation and post-commit events.
type engine struct {
	store   repository.SchedulingStore
	locker  SlotLocker
	events  EventPublisher
	topic   string
	holdTTL time.Duration
	loc     *time.Location
	clock   func() time.Time
	log     *zap.Logger
}

func newEngine(d SchedulingDeps) *engine {
	e := &engine{
		store:   d.Store,
		locker:  d.Locker,
		events:  d.Events,
		topic:   d.SurgeryTopic,
		holdTTL: d.HoldTTL,
		loc:     d.Location,
		clock:   d.Clock,
		log:     d.Log,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.holdTTL == 0 {
		e.holdTTL = 10 * time.Second
	}
	return e
}

func (e *engine) now() time.Time {
	return e.clock().In(e.loc)
}

func (e *engine) today() models.Date {
	return models.DateOf(e.now())
}

// ensureSlotFree fails with Conflict when an active booking in the room
// overlaps the requested interval.
func (e *engine) ensureSlotFree(ctx context.Context, tx repository.SchedulingStore, q repository.OverlapQuery) error {
	clashes, err := tx.FindOverlapping(ctx, q)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		c := clashes[0]
		return apperr.Conflict("operating room not available at this time: overlaps surgery %d (%s-%s)",
			c.ID, c.ScheduledTime, c.EndTime())
	}
	return nil
}

// deriveRoom computes what occupies the room right now in the schedule timezone.
func (e *engine) deriveRoom(ctx context.Context, tx repository.SchedulingStore, roomID uint) (models.RoomStatus, error) {
	now := e.now()
	today := models.DateOf(now)
	occupants, err := tx.RoomOccupants(ctx, roomID, today)
	if err != nil {
		return "", err
	}
	return DeriveRoomStatus(occupants, today, models.NewClockTime(now.Hour(), now.Minute())), nil
}

// reconcileRoom re-derives the room's occupancy flag from its active bookings.
// Staff-set statuses (maintenance, unavailable) are left alone.
func (e *engine) reconcileRoom(ctx context.Context, tx repository.SchedulingStore, roomID uint) (bool, error) {
	room, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.Status.IsManual() {
		return false, nil
	}

	next, err := e.deriveRoom(ctx, tx, roomID)
	if err != nil {
		return false, err
	}
	if next == room.Status {
		return false, nil
	}
	if err := tx.UpdateRoomStatus(ctx, roomID, next); err != nil {
		return false, err
	}
	return true, nil
}

// holdSlot takes the cross-process claim for a slot. The returned release is
// always safe to call.
func (e *engine) holdSlot(ctx context.Context, roomID uint, date models.Date, start models.ClockTime) (func(), error) {
	if e.locker == nil {
		return func() {}, nil
	}
	token, ok, err := e.locker.AcquireSlotLock(ctx, roomID, date, start, e.holdTTL)
	if err != nil {
		return nil, apperr.Store("acquire slot hold", err)
	}
	if !ok {
		return nil, apperr.Conflict("operating room slot is being booked by another request")
	}
	return func() {
		if err := e.locker.ReleaseSlotLock(context.WithoutCancel(ctx), roomID, date, start, token); err != nil {
			e.log.Warn("failed to release slot hold",
				zap.Uint("room_id", roomID), zap.Stringer("date", date), zap.Stringer("time", start), zap.Error(err))
		}
	}, nil
}

// publish emits a surgery event after commit. Failures are logged, never returned.
func (e *engine) publish(ctx context.Context, eventType string, s *models.Surgery) {
	if e.events == nil {
		return
	}
	event := events.NewSurgeryEvent(eventType, s, e.clock())
	if err := e.events.Publish(ctx, e.topic, event.Key(), event); err != nil {
		e.log.Warn("failed to publish surgery event",
			zap.String("type", eventType), zap.Uint("surgery_id", s.ID), zap.Error(err))
	}
}

func (e *engine) audit(ctx context.Context, tx repository.SchedulingStore, actorID uint, action, format string, args ...interface{}) error {
	var actor *uint
	if actorID != 0 {
		actor = &actorID
	}
	return tx.CreateAuditLog(ctx, actor, action, fmt.Sprintf(format, args...))
}
