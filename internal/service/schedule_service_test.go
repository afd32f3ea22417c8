package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/events"
	"hospital-or-scheduling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_Book_Success(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	res, err := svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	require.NoError(t, err)

	assert.Equal(t, "Appendectomy", res.ProcedureName)
	assert.Equal(t, "2024-06-10", res.ScheduledDate.String())
	assert.Equal(t, "09:00", res.ScheduledTime.String())

	booked := store.surgery(res.SurgeryID)
	assert.Equal(t, models.SurgeryScheduled, booked.Status)
	assert.Equal(t, DefaultDurationMinutes, booked.DurationMinutes)
	assert.Equal(t, models.UrgencyRoutine, booked.UrgencyLevel)
	assert.Equal(t, testDoctorID, booked.DoctorID)
	assert.Equal(t, models.RoomReserved, store.room(room.ID).Status)
}

func TestScheduleService_Book_SameSlotConflicts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	or1 := store.addRoom("OR-1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	other := store.addPatient("P-002", "John", "Roe")
	svc := NewScheduleService(testDeps(store))

	first, err := svc.Book(ctx, bookingFor(or1, patient, june(10), at(9, 0)))
	require.NoError(t, err)
	before := store.surgery(first.SurgeryID)

	_, err = svc.Book(ctx, bookingFor(or1, other, june(10), at(9, 0)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	assert.Equal(t, 1, store.surgeryCount())
	assert.Equal(t, before, store.surgery(first.SurgeryID))
}

func TestScheduleService_Book_DurationOverlap(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	long := bookingFor(room, patient, june(10), at(9, 0))
	long.DurationMinutes = 90
	_, err := svc.Book(ctx, long)
	require.NoError(t, err)

	_, err = svc.Book(ctx, bookingFor(room, patient, june(10), at(10, 0)))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Book(ctx, bookingFor(room, patient, june(10), at(10, 30)))
	assert.NoError(t, err)

	_, err = svc.Book(ctx, bookingFor(room, patient, june(11), at(9, 0)))
	assert.NoError(t, err, "same slot on another day is free")
}

func TestScheduleService_Book_MustEndByMidnight(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	overnight := bookingFor(room, patient, june(10), at(19, 30))
	overnight.DurationMinutes = MaxDurationMinutes
	_, err := svc.Book(ctx, overnight)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, 0, store.surgeryCount())

	lateEvening := bookingFor(room, patient, june(10), at(19, 30))
	lateEvening.DurationMinutes = 270
	_, err = svc.Book(ctx, lateEvening)
	require.NoError(t, err, "ending exactly at midnight is allowed")

	_, err = svc.Book(ctx, bookingFor(room, patient, june(11), at(7, 0)))
	assert.NoError(t, err)
}

func TestScheduleService_Book_CancelledBookingFreesSlot(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	deps := testDeps(store)
	schedule := NewScheduleService(deps)
	surgeries := NewSurgeryService(deps)

	first, err := schedule.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	require.NoError(t, err)
	_, err = surgeries.Cancel(ctx, first.SurgeryID, testDoctorID)
	require.NoError(t, err)

	_, err = schedule.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	assert.NoError(t, err)
}

func TestScheduleService_Book_Validation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	tests := []struct {
		name   string
		modify func(r *BookingRequest)
		kind   apperr.Kind
	}{
		{"before the day opens", func(r *BookingRequest) { r.Time = at(6, 59) }, apperr.KindValidation},
		{"after the last slot", func(r *BookingRequest) { r.Time = at(20, 0) }, apperr.KindValidation},
		{"duration too long", func(r *BookingRequest) { r.DurationMinutes = MaxDurationMinutes + 1 }, apperr.KindValidation},
		{"negative duration", func(r *BookingRequest) { r.DurationMinutes = -5 }, apperr.KindValidation},
		{"missing procedure", func(r *BookingRequest) { r.ProcedureName = "  " }, apperr.KindValidation},
		{"missing room", func(r *BookingRequest) { r.RoomID = 0 }, apperr.KindValidation},
		{"bad urgency", func(r *BookingRequest) { r.Urgency = "whenever" }, apperr.KindValidation},
		{"unknown room", func(r *BookingRequest) { r.RoomID = 999 }, apperr.KindNotFound},
		{"unknown patient", func(r *BookingRequest) { r.PatientID = 999 }, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingFor(room, patient, june(10), at(9, 0))
			tt.modify(&req)
			_, err := svc.Book(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
	assert.Equal(t, 0, store.surgeryCount())
	assert.Equal(t, models.RoomAvailable, store.room(room.ID).Status)
}

func TestScheduleService_Book_RoomUnderMaintenance(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	store.setRoomStatus(room.ID, models.RoomMaintenance)
	svc := NewScheduleService(testDeps(store))

	_, err := svc.Book(context.Background(), bookingFor(room, patient, june(10), at(9, 0)))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, models.RoomMaintenance, store.room(room.ID).Status)
}

func TestScheduleService_Book_RollsBackOnRoomUpdateFailure(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	store.failOn["UpdateRoomStatus"] = errors.New("lost connection")
	svc := NewScheduleService(testDeps(store))

	_, err := svc.Book(context.Background(), bookingFor(room, patient, june(10), at(9, 0)))
	require.Error(t, err)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))

	assert.Equal(t, 0, store.surgeryCount(), "surgery insert must be rolled back")
	assert.Equal(t, models.RoomAvailable, store.room(room.ID).Status)
}

func TestScheduleService_Book_ConcurrentRequestsForSameSlot(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperr.KindOf(err) == apperr.KindConflict {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, store.surgeryCount())
}

func TestScheduleService_Book_SlotHeldElsewhere(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	locker := new(MockLocker)
	deps := testDeps(store)
	deps.Locker = locker
	svc := NewScheduleService(deps)

	locker.On("AcquireSlotLock", ctx, room.ID, june(10), at(9, 0), time.Minute).Return("", false, nil).Once()

	_, err := svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, 0, store.surgeryCount())
	locker.AssertExpectations(t)
	locker.AssertNotCalled(t, "ReleaseSlotLock")
}

func TestScheduleService_Book_ReleasesHoldAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	locker := new(MockLocker)
	publisher := new(MockPublisher)
	deps := testDeps(store)
	deps.Locker = locker
	deps.Events = publisher
	svc := NewScheduleService(deps)

	locker.On("AcquireSlotLock", ctx, room.ID, june(10), at(9, 0), time.Minute).Return("hold-7f3a", true, nil).Once()
	locker.On("ReleaseSlotLock", mock.Anything, room.ID, june(10), at(9, 0), "hold-7f3a").Return(nil).Once()
	publisher.On("Publish", ctx, "surgery-events", mock.AnythingOfType("string"), mock.MatchedBy(func(e events.SurgeryEvent) bool {
		return e.Type == events.SurgeryBooked && e.Status == models.SurgeryScheduled
	})).Return(errors.New("broker unavailable")).Once()

	res, err := svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	require.NoError(t, err, "a failed publish must not fail the booking")
	assert.NotZero(t, res.SurgeryID)

	locker.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestScheduleService_Book_ReleasesOwnHoldOnConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	_, err := NewScheduleService(testDeps(store)).Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	require.NoError(t, err)

	locker := new(MockLocker)
	deps := testDeps(store)
	deps.Locker = locker
	svc := NewScheduleService(deps)

	locker.On("AcquireSlotLock", ctx, room.ID, june(10), at(9, 0), time.Minute).Return("hold-b2", true, nil).Once()
	locker.On("ReleaseSlotLock", mock.Anything, room.ID, june(10), at(9, 0), "hold-b2").Return(nil).Once()

	_, err = svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	locker.AssertExpectations(t)
}

func TestScheduleService_Book_HoldErrorIsStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	locker := new(MockLocker)
	deps := testDeps(store)
	deps.Locker = locker
	svc := NewScheduleService(deps)

	locker.On("AcquireSlotLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", false, errors.New("redis down")).Once()

	_, err := svc.Book(ctx, bookingFor(room, patient, june(10), at(9, 0)))
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}

func TestScheduleService_DaySchedule_ShowsBooking(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addRoom("OR-1")
	or2 := store.addRoom("OR-2")
	patient := store.addPatient("P-042", "Ada", "Lovelace")
	svc := NewScheduleService(testDeps(store))

	res, err := svc.Book(ctx, bookingFor(or2, patient, june(10), at(10, 0)))
	require.NoError(t, err)

	day, err := svc.DaySchedule(ctx, june(10))
	require.NoError(t, err)
	require.Len(t, day.TimeSlots, 13)

	for _, slot := range day.TimeSlots {
		cell, ok := slot.Rooms["or_OR-2"]
		require.True(t, ok)
		if slot.Time == "10:00" {
			assert.Equal(t, SlotOccupied, cell.Status)
			require.NotNil(t, cell.PatientName)
			assert.Equal(t, "Ada Lovelace", *cell.PatientName)
			assert.Equal(t, "P-042", *cell.PatientCode)
			assert.Equal(t, res.SurgeryID, *cell.SurgeryID)
			continue
		}
		assert.Equal(t, SlotAvailable, cell.Status, slot.Time)
		assert.Nil(t, cell.PatientName)
		assert.Equal(t, SlotAvailable, slot.Rooms["or_OR-1"].Status)
	}
}

func TestScheduleService_DaySchedule_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	req := bookingFor(room, patient, june(10), at(13, 15))
	req.DurationMinutes = 120
	_, err := svc.Book(ctx, req)
	require.NoError(t, err)

	first, err := svc.DaySchedule(ctx, june(10))
	require.NoError(t, err)
	second, err := svc.DaySchedule(ctx, june(10))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScheduleService_DaySchedule_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn["ListDaySurgeries"] = errors.New("timeout")
	svc := NewScheduleService(testDeps(store))

	_, err := svc.DaySchedule(context.Background(), june(10))
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}

func TestScheduleService_MonthAvailability(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	room := store.addRoom("1")
	patient := store.addPatient("P-001", "Jane", "Doe")
	svc := NewScheduleService(testDeps(store))

	for _, start := range []models.ClockTime{at(8, 0), at(11, 0)} {
		_, err := svc.Book(ctx, bookingFor(room, patient, june(10), start))
		require.NoError(t, err)
	}

	month, err := svc.MonthAvailability(ctx, 2024, 6)
	require.NoError(t, err)
	require.Len(t, month.Days, 30)

	assert.Equal(t, 2, month.Days[9].SurgeryCount)
	assert.True(t, month.Days[9].HasSurgeries)
	assert.False(t, month.Days[9].IsPast, "today is not past")
	assert.True(t, month.Days[8].IsPast)
	assert.False(t, month.Days[1].HasSurgeries)

	may, err := svc.MonthAvailability(ctx, 2024, 5)
	require.NoError(t, err)
	assert.True(t, may.Days[30].IsPast)
}

func TestScheduleService_MonthAvailability_EmptyMonth(t *testing.T) {
	svc := NewScheduleService(testDeps(newFakeStore()))

	month, err := svc.MonthAvailability(context.Background(), 2024, 2)
	require.NoError(t, err)
	require.Len(t, month.Days, 29)
	for _, d := range month.Days {
		assert.False(t, d.HasSurgeries)
		assert.Zero(t, d.SurgeryCount)
	}
}

func TestScheduleService_MonthAvailability_InvalidMonth(t *testing.T) {
	svc := NewScheduleService(testDeps(newFakeStore()))

	for _, m := range []int{0, 13, -1} {
		_, err := svc.MonthAvailability(context.Background(), 2024, m)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "month %d", m)
	}
}
