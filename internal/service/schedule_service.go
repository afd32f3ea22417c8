package service

import (
	"context"
	"strings"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/events"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"

	"go.uber.org/zap"
)

// BookingRequest asks for an operating room slot. DurationMinutes and Urgency
// default to 60 and routine when zero.
type BookingRequest struct {
	RoomID          uint
	PatientID       uint
	DoctorID        uint
	Date            models.Date
	Time            models.ClockTime
	ProcedureName   string
	SurgeryType     string
	DurationMinutes int
	Urgency         models.Urgency
	Participants    []string
	Notes           string
}

type BookingResult struct {
	SurgeryID     uint             `json:"surgery_id"`
	ProcedureName string           `json:"procedure_name"`
	ScheduledDate models.Date      `json:"scheduled_date"`
	ScheduledTime models.ClockTime `json:"scheduled_time"`
	Message       string           `json:"message"`
}

type ScheduleService struct {
	*engine
}

func NewScheduleService(deps SchedulingDeps) *ScheduleService {
	return &ScheduleService{engine: newEngine(deps)}
}

// MonthAvailability counts surgeries per day of the month. Days before today
// (in the schedule timezone) are flagged as past.
func (s *ScheduleService) MonthAvailability(ctx context.Context, year, month int) (*MonthAvailability, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, apperr.Validation("year out of range")
	}

	m := time.Month(month)
	from := models.NewDate(year, m, 1)
	to := models.NewDate(year, m, daysIn(year, m))

	counts, err := s.store.CountSurgeriesByDate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := BuildMonthAvailability(year, m, counts, s.today())
	return &out, nil
}

// DaySchedule renders the hourly room grid for date. Rooms and surgeries are
// read in one transaction so the grid reflects a single snapshot.
func (s *ScheduleService) DaySchedule(ctx context.Context, date models.Date) (*DaySchedule, error) {
	var (
		rooms     []models.OperatingRoom
		surgeries []models.Surgery
	)
	err := s.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		var err error
		if rooms, err = tx.ListRooms(ctx); err != nil {
			return err
		}
		surgeries, err = tx.ListDaySurgeries(ctx, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := BuildDaySchedule(date, rooms, surgeries)
	return &out, nil
}

// Book reserves a room slot by creating a scheduled surgery. The overlap check,
// insert and room status change commit together or not at all.
func (s *ScheduleService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	surgery, err := newBooking(req)
	if err != nil {
		return nil, err
	}
	if req.RoomID == 0 {
		return nil, apperr.Validation("operating_room_id is required")
	}

	if err := s.book(ctx, surgery, "or_booked"); err != nil {
		return nil, err
	}

	return &BookingResult{
		SurgeryID:     surgery.ID,
		ProcedureName: surgery.ProcedureName,
		ScheduledDate: surgery.ScheduledDate,
		ScheduledTime: surgery.ScheduledTime,
		Message:       "Operating room booked successfully",
	}, nil
}

// newBooking validates req and builds the surgery row it would insert.
func newBooking(req BookingRequest) (*models.Surgery, error) {
	if req.PatientID == 0 {
		return nil, apperr.Validation("patient_id is required")
	}
	if req.DoctorID == 0 {
		return nil, apperr.Validation("doctor_id is required")
	}
	procedure := strings.TrimSpace(req.ProcedureName)
	if procedure == "" {
		return nil, apperr.Validation("procedure_name is required")
	}
	if req.Date.IsZero() {
		return nil, apperr.Validation("scheduled_date is required")
	}

	duration := normalizeDuration(req.DurationMinutes)
	if err := validateSlot(req.Time, duration); err != nil {
		return nil, err
	}
	urgency, err := normalizeUrgency(req.Urgency)
	if err != nil {
		return nil, err
	}

	surgery := &models.Surgery{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		SurgeryType:     strings.TrimSpace(req.SurgeryType),
		ProcedureName:   procedure,
		ScheduledDate:   req.Date,
		ScheduledTime:   req.Time,
		DurationMinutes: duration,
		Status:          models.SurgeryScheduled,
		UrgencyLevel:    urgency,
		Participants:    cleanParticipants(req.Participants),
		Notes:           req.Notes,
	}
	if req.RoomID != 0 {
		roomID := req.RoomID
		surgery.OperatingRoomID = &roomID
	}
	return surgery, nil
}

// book inserts surgery behind the room lock and overlap gate. Surgeries
// without a room skip the gate.
func (e *engine) book(ctx context.Context, surgery *models.Surgery, action string) error {
	release := func() {}
	if surgery.OperatingRoomID != nil {
		var err error
		release, err = e.holdSlot(ctx, *surgery.OperatingRoomID, surgery.ScheduledDate, surgery.ScheduledTime)
		if err != nil {
			return err
		}
	}
	defer release()

	err := e.store.Transaction(ctx, func(tx repository.SchedulingStore) error {
		if surgery.OperatingRoomID != nil {
			room, err := tx.LockRoom(ctx, *surgery.OperatingRoomID)
			if err != nil {
				return err
			}
			if !room.Status.IsBookable() {
				return apperr.Conflict("operating room %s is %s", room.RoomNumber, room.Status)
			}
		}
		if _, err := tx.GetPatient(ctx, surgery.PatientID); err != nil {
			return err
		}
		if surgery.OperatingRoomID != nil {
			err := e.ensureSlotFree(ctx, tx, repository.OverlapQuery{
				RoomID:   *surgery.OperatingRoomID,
				Date:     surgery.ScheduledDate,
				Start:    surgery.ScheduledTime,
				Duration: surgery.DurationMinutes,
			})
			if err != nil {
				return err
			}
		}

		if err := tx.CreateSurgery(ctx, surgery); err != nil {
			return err
		}
		if surgery.OperatingRoomID != nil {
			if _, err := e.reconcileRoom(ctx, tx, *surgery.OperatingRoomID); err != nil {
				return err
			}
		}
		return e.audit(ctx, tx, surgery.DoctorID, action, "surgery %d '%s' on %s at %s",
			surgery.ID, surgery.ProcedureName, surgery.ScheduledDate, surgery.ScheduledTime)
	})
	if err != nil {
		return err
	}

	e.log.Info("surgery booked",
		zap.Uint("surgery_id", surgery.ID),
		zap.Stringer("date", surgery.ScheduledDate),
		zap.Stringer("time", surgery.ScheduledTime))
	e.publish(ctx, events.SurgeryBooked, surgery)
	return nil
}
