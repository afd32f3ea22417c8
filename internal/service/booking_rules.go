package service

import (
	"strings"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
)

const (
	FirstSlotHour          = 7
	LastSlotHour           = 19
	DefaultDurationMinutes = 60
	MaxDurationMinutes     = 12 * 60
)

var (
	dayOpens  = models.NewClockTime(FirstSlotHour, 0)
	dayCloses = models.NewClockTime(LastSlotHour+1, 0)
)

// validateSlot checks that a booking starts inside the bookable day, has a sane
// length and ends by midnight. Bookings never cross into the next date.
func validateSlot(start models.ClockTime, duration int) error {
	if start < dayOpens || start >= dayCloses {
		return apperr.Validation("scheduled_time must be between %s and %s", dayOpens, dayCloses.Add(-1))
	}
	if duration < 1 || duration > MaxDurationMinutes {
		return apperr.Validation("duration must be between 1 and %d minutes", MaxDurationMinutes)
	}
	if int(start.Add(duration)) > models.MinutesPerDay {
		return apperr.Validation("surgery starting at %s must end by 24:00 (at most %d minutes)",
			start, models.MinutesPerDay-int(start))
	}
	return nil
}

func normalizeDuration(minutes int) int {
	if minutes == 0 {
		return DefaultDurationMinutes
	}
	return minutes
}

func normalizeUrgency(u models.Urgency) (models.Urgency, error) {
	if u == "" {
		return models.UrgencyRoutine, nil
	}
	if _, ok := models.ParseUrgency(string(u)); !ok {
		return "", apperr.Validation("invalid urgency level %q", u)
	}
	return u, nil
}

// cleanParticipants trims names and drops blanks and repeats, keeping order.
func cleanParticipants(names []string) models.StringList {
	out := models.StringList{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || out.Contains(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// DeriveRoomStatus computes a room's occupancy flag at the minute now of day
// today. A surgery in progress puts the room in use; an active booking whose
// interval covers now reserves it. Bookings on other dates or later in the day
// do not count.
func DeriveRoomStatus(occupants []models.Surgery, today models.Date, now models.ClockTime) models.RoomStatus {
	status := models.RoomAvailable
	for _, s := range occupants {
		if !s.Status.IsActive() {
			continue
		}
		if s.Status == models.SurgeryInProgress {
			return models.RoomInUse
		}
		if s.ScheduledDate.Equal(today.Time) && s.Overlaps(now, now.Add(1)) {
			status = models.RoomReserved
		}
	}
	return status
}
