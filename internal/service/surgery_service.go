package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/events"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"

	"go.uber.org/zap"
)

const surgeryListLimit = 100

// SurgeryUpdate carries the fields of a partial update; nil means unchanged.
type SurgeryUpdate struct {
	OperatingRoomID *uint
	ProcedureName   *string
	ScheduledDate   *models.Date
	ScheduledTime   *models.ClockTime
	DurationMinutes *int
	UrgencyLevel    *models.Urgency
	Participants    []string
	Notes           *string
	PostOpNotes     *string
	Complications   *string
}

func (u SurgeryUpdate) movesSlot() bool {
	return u.OperatingRoomID != nil || u.ScheduledDate != nil || u.ScheduledTime != nil || u.DurationMinutes != nil
}

func (u SurgeryUpdate) empty() bool {
	return !u.movesSlot() && u.ProcedureName == nil && u.UrgencyLevel == nil && u.Participants == nil &&
		u.Notes == nil && u.PostOpNotes == nil && u.Complications == nil
}

// StatusChange is a generic status PATCH. Explicit timestamps override the
// ones the transition would set.
type StatusChange struct {
	Status          models.SurgeryStatus
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
}

type SurgeryService struct {
	*engine
}

func NewSurgeryService(deps SchedulingDeps) *SurgeryService {
	return &SurgeryService{engine: newEngine(deps)}
}

func (s *SurgeryService) List(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error) {
	if f.Status != "" {
		if _, ok := models.ParseSurgeryStatus(string(f.Status)); !ok {
			return nil, apperr.Validation("invalid status %q", f.Status)
		}
	}
	f.Limit = surgeryListLimit
	return s.store.ListSurgeries(ctx, f)
}

func (s *SurgeryService) Get(ctx context.Context, id uint) (*models.Surgery, error) {
	return s.store.GetSurgery(ctx, id)
}

// Create schedules a surgery. With a room it goes through the same gate as a booking.
func (s *SurgeryService) Create(ctx context.Context, req BookingRequest) (*models.Surgery, error) {
	surgery, err := newBooking(req)
	if err != nil {
		return nil, err
	}
	if err := s.book(ctx, surgery, "surgery_created"); err != nil {
		return nil, err
	}
	return surgery, nil
}

// Update applies a partial edit. Moving an active surgery re-runs the overlap
// check against everything but itself; a changed date or time marks it rescheduled.
func (s *SurgeryService) Update(ctx context.Context, id uint, u SurgeryUpdate, actorID uint) (*models.Surgery, error) {
	if u.empty() {
		return nil, apperr.Validation("no fields to update")
	}

	current, err := s.store.GetSurgery(ctx, id)
	if err != nil {
		return nil, err
	}

	release := func() {}
	if u.movesSlot() {
		target := *current
		applySlot(&target, u)
		if target.OperatingRoomID != nil && target.Status.IsActive() {
			if release, err = s.holdSlot(ctx, *target.OperatingRoomID, target.ScheduledDate, target.ScheduledTime); err != nil {
				return nil, err
			}
		}
	}
	defer release()

	var (
		updated     *models.Surgery
		rescheduled bool
	)
	err = s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		rooms := roomsOf(current.OperatingRoomID, u.OperatingRoomID)
		if err := lockRooms(ctx, tx, rooms); err != nil {
			return err
		}
		surgery, err := tx.LockSurgery(ctx, id)
		if err != nil {
			return err
		}
		if !sameRoom(surgery.OperatingRoomID, current.OperatingRoomID) {
			return apperr.Conflict("surgery was modified concurrently, retry")
		}

		oldDate, oldTime := surgery.ScheduledDate, surgery.ScheduledTime
		if u.movesSlot() {
			if !surgery.Status.IsActive() {
				return apperr.Conflict("cannot reschedule a %s surgery", surgery.Status)
			}
			applySlot(surgery, u)
			if err := validateSlot(surgery.ScheduledTime, surgery.DurationMinutes); err != nil {
				return err
			}
			moved := !surgery.ScheduledDate.Equal(oldDate.Time) || surgery.ScheduledTime != oldTime
			if moved && surgery.Status == models.SurgeryInProgress {
				return apperr.Conflict("cannot reschedule a surgery in progress")
			}
			if surgery.OperatingRoomID != nil {
				room, err := tx.GetRoom(ctx, *surgery.OperatingRoomID)
				if err != nil {
					return err
				}
				if !room.Status.IsBookable() && !sameRoom(surgery.OperatingRoomID, current.OperatingRoomID) {
					return apperr.Conflict("operating room %s is %s", room.RoomNumber, room.Status)
				}
				err = s.ensureSlotFree(ctx, tx, repository.OverlapQuery{
					RoomID:    *surgery.OperatingRoomID,
					Date:      surgery.ScheduledDate,
					Start:     surgery.ScheduledTime,
					Duration:  surgery.DurationMinutes,
					ExcludeID: surgery.ID,
				})
				if err != nil {
					return err
				}
			}
			if moved {
				surgery.Status = models.SurgeryRescheduled
				rescheduled = true
			}
		}
		if err := applyDetails(surgery, u); err != nil {
			return err
		}

		if err := tx.SaveSurgery(ctx, surgery); err != nil {
			return err
		}
		for _, roomID := range rooms {
			if _, err := s.reconcileRoom(ctx, tx, roomID); err != nil {
				return err
			}
		}
		updated = surgery
		return s.audit(ctx, tx, actorID, "surgery_updated", "surgery %d updated", surgery.ID)
	})
	if err != nil {
		return nil, err
	}

	if rescheduled {
		s.log.Info("surgery rescheduled", zap.Uint("surgery_id", updated.ID),
			zap.Stringer("date", updated.ScheduledDate), zap.Stringer("time", updated.ScheduledTime))
	}
	s.publish(ctx, events.SurgeryUpdated, updated)
	return updated, nil
}

func applySlot(s *models.Surgery, u SurgeryUpdate) {
	if u.OperatingRoomID != nil {
		roomID := *u.OperatingRoomID
		s.OperatingRoomID = &roomID
	}
	if u.ScheduledDate != nil {
		s.ScheduledDate = *u.ScheduledDate
	}
	if u.ScheduledTime != nil {
		s.ScheduledTime = *u.ScheduledTime
	}
	if u.DurationMinutes != nil {
		s.DurationMinutes = *u.DurationMinutes
	}
}

func applyDetails(s *models.Surgery, u SurgeryUpdate) error {
	if u.ProcedureName != nil {
		name := strings.TrimSpace(*u.ProcedureName)
		if name == "" {
			return apperr.Validation("procedure_name cannot be empty")
		}
		s.ProcedureName = name
	}
	if u.UrgencyLevel != nil {
		urgency, err := normalizeUrgency(*u.UrgencyLevel)
		if err != nil {
			return err
		}
		s.UrgencyLevel = urgency
	}
	if u.Participants != nil {
		s.Participants = cleanParticipants(u.Participants)
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.PostOpNotes != nil {
		s.PostOpNotes = *u.PostOpNotes
	}
	if u.Complications != nil {
		s.Complications = *u.Complications
	}
	return nil
}

// UpdateStatus is the generic status PATCH. It follows the same transition
// table and side effects as Delay, Cancel and Complete.
func (s *SurgeryService) UpdateStatus(ctx context.Context, id uint, change StatusChange, actorID uint) (*models.Surgery, error) {
	if _, ok := models.ParseSurgeryStatus(string(change.Status)); !ok {
		return nil, apperr.Validation("invalid status %q", change.Status)
	}
	return s.transition(ctx, id, change, actorID)
}

func (s *SurgeryService) Delay(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return s.transition(ctx, id, StatusChange{Status: models.SurgeryDelayed}, actorID)
}

func (s *SurgeryService) Cancel(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return s.transition(ctx, id, StatusChange{Status: models.SurgeryCancelled}, actorID)
}

func (s *SurgeryService) Complete(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return s.transition(ctx, id, StatusChange{Status: models.SurgeryCompleted}, actorID)
}

// transition moves a surgery to change.Status. The status write, the room's
// occupancy flag and the doctor's notification commit together.
func (s *SurgeryService) transition(ctx context.Context, id uint, change StatusChange, actorID uint) (*models.Surgery, error) {
	current, err := s.store.GetSurgery(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		updated *models.Surgery
		from    models.SurgeryStatus
	)
	err = s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		if current.OperatingRoomID != nil {
			if _, err := tx.LockRoom(ctx, *current.OperatingRoomID); err != nil {
				return err
			}
		}
		surgery, err := tx.LockSurgery(ctx, id)
		if err != nil {
			return err
		}
		if !sameRoom(surgery.OperatingRoomID, current.OperatingRoomID) {
			return apperr.Conflict("surgery was modified concurrently, retry")
		}

		from = surgery.Status
		if !from.CanTransitionTo(change.Status) {
			return apperr.Conflict("cannot change surgery status from %s to %s", from, change.Status)
		}

		now := s.clock().UTC()
		surgery.Status = change.Status
		switch change.Status {
		case models.SurgeryInProgress:
			if surgery.ActualStartTime == nil {
				surgery.ActualStartTime = &now
			}
		case models.SurgeryCompleted:
			surgery.ActualEndTime = &now
		}
		if change.ActualStartTime != nil {
			surgery.ActualStartTime = change.ActualStartTime
		}
		if change.ActualEndTime != nil {
			surgery.ActualEndTime = change.ActualEndTime
		}

		if err := tx.SaveSurgery(ctx, surgery); err != nil {
			return err
		}
		if surgery.OperatingRoomID != nil {
			if _, err := s.reconcileRoom(ctx, tx, *surgery.OperatingRoomID); err != nil {
				return err
			}
		}
		if err := tx.CreateNotification(ctx, statusNotification(surgery)); err != nil {
			return err
		}
		updated = surgery
		return s.audit(ctx, tx, actorID, "surgery_status_changed", "surgery %d: %s -> %s", surgery.ID, from, surgery.Status)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("surgery status changed",
		zap.Uint("surgery_id", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)))
	s.publish(ctx, statusEventType(updated.Status), updated)
	return updated, nil
}

// AddParticipant appends name to the participant list once and notifies the
// owning doctor. Adding a name already present changes nothing.
func (s *SurgeryService) AddParticipant(ctx context.Context, id uint, name string, actorID uint) (*models.Surgery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("participant_name is required")
	}

	var surgery *models.Surgery
	err := s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		var err error
		surgery, err = tx.LockSurgery(ctx, id)
		if err != nil {
			return err
		}
		if surgery.Participants.Contains(name) {
			return nil
		}

		surgery.Participants = append(surgery.Participants, name)
		if err := tx.SaveSurgery(ctx, surgery); err != nil {
			return err
		}
		related := surgery.ID
		err = tx.CreateNotification(ctx, &models.Notification{
			DoctorID:         surgery.DoctorID,
			Title:            "New Surgery Participant",
			Message:          fmt.Sprintf("%s has been added to the surgery", name),
			NotificationType: models.NotificationSurgeryUpdate,
			Priority:         "normal",
			RelatedEntityID:  &related,
		})
		if err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, "surgery_participant_added", "surgery %d: %s", surgery.ID, name)
	})
	if err != nil {
		return nil, err
	}
	return surgery, nil
}

func statusNotification(s *models.Surgery) *models.Notification {
	n := &models.Notification{
		DoctorID: s.DoctorID,
		Priority: "normal",
	}
	related := s.ID
	n.RelatedEntityID = &related

	switch s.Status {
	case models.SurgeryDelayed:
		n.Title = "Surgery Delayed"
		n.Message = fmt.Sprintf("Surgery '%s' has been delayed", s.ProcedureName)
		n.NotificationType = models.NotificationSurgeryDelayed
		n.Priority = "high"
	case models.SurgeryCancelled:
		n.Title = "Surgery Cancelled"
		n.Message = fmt.Sprintf("Surgery '%s' has been cancelled", s.ProcedureName)
		n.NotificationType = models.NotificationSurgeryCancelled
		n.Priority = "high"
	case models.SurgeryCompleted:
		n.Title = "Surgery Completed"
		n.Message = fmt.Sprintf("Surgery '%s' has been completed successfully", s.ProcedureName)
		n.NotificationType = models.NotificationSurgeryCompleted
	default:
		n.Title = "Surgery Status Updated"
		n.Message = fmt.Sprintf("Surgery '%s' is now %s", s.ProcedureName, strings.ReplaceAll(string(s.Status), "_", " "))
		n.NotificationType = models.NotificationSurgeryUpdate
	}
	return n
}

func statusEventType(st models.SurgeryStatus) string {
	switch st {
	case models.SurgeryDelayed:
		return events.SurgeryDelayed
	case models.SurgeryCancelled:
		return events.SurgeryCancelled
	case models.SurgeryCompleted:
		return events.SurgeryCompleted
	}
	return events.SurgeryStatus
}

func sameRoom(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// roomsOf returns the distinct room ids in ascending order, the order in
// which rooms are locked everywhere.
func roomsOf(ids ...*uint) []uint {
	var out []uint
	for _, id := range ids {
		if id == nil {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == *id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, *id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lockRooms(ctx context.Context, tx repository.SchedulingStore, ids []uint) error {
	for _, id := range ids {
		if _, err := tx.LockRoom(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
