package service

import (
	"time"

	"hospital-or-scheduling/internal/models"

	"go.uber.org/zap"
)

const testDoctorID uint = 100

// testNow falls inside the 09:00 bookings most tests make on june(10).
var testNow = time.Date(2024, time.June, 10, 9, 15, 0, 0, time.UTC)

func testDeps(store *fakeStore) SchedulingDeps {
	return SchedulingDeps{
		Store:        store,
		SurgeryTopic: "surgery-events",
		HoldTTL:      time.Minute,
		Location:     time.UTC,
		Clock:        func() time.Time { return testNow },
		Log:          zap.NewNop(),
	}
}

func june(day int) models.Date {
	return models.NewDate(2024, time.June, day)
}

func at(hour, minute int) models.ClockTime {
	return models.NewClockTime(hour, minute)
}

func bookingFor(room models.OperatingRoom, patient models.Patient, date models.Date, start models.ClockTime) BookingRequest {
	return BookingRequest{
		RoomID:        room.ID,
		PatientID:     patient.ID,
		DoctorID:      testDoctorID,
		Date:          date,
		Time:          start,
		ProcedureName: "Appendectomy",
		SurgeryType:   "general",
	}
}
