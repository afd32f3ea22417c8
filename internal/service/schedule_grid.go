package service

import (
	"sort"
	"time"

	"hospital-or-scheduling/internal/models"
)

const (
	SlotOccupied  = "occupied"
	SlotAvailable = "available"
)

// SlotOccupancy is one room's state during one hourly slot.
type SlotOccupancy struct {
	Status        string                `json:"status"`
	PatientName   *string               `json:"patient_name"`
	PatientCode   *string               `json:"patient_code"`
	Procedure     *string               `json:"procedure"`
	SurgeryStatus *models.SurgeryStatus `json:"surgery_status,omitempty"`
	SurgeryID     *uint                 `json:"surgery_id,omitempty"`
}

type TimeSlot struct {
	Time  string                   `json:"time"`
	Rooms map[string]SlotOccupancy `json:"or_rooms"`
}

type DaySchedule struct {
	Date      models.Date `json:"date"`
	TimeSlots []TimeSlot  `json:"time_slots"`
}

type DayAvailability struct {
	Date         models.Date `json:"date"`
	Day          int         `json:"day"`
	HasSurgeries bool        `json:"has_surgeries"`
	SurgeryCount int         `json:"surgery_count"`
	IsPast       bool        `json:"is_past"`
}

type MonthAvailability struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Days  []DayAvailability `json:"days"`
}

// BuildDaySchedule lays the day's surgeries out on the hourly grid. A room is
// occupied in a slot when an active surgery's [start, start+duration) overlaps
// the slot; if several do, the earliest start wins.
func BuildDaySchedule(date models.Date, rooms []models.OperatingRoom, surgeries []models.Surgery) DaySchedule {
	byRoom := make(map[uint][]models.Surgery, len(rooms))
	for _, s := range surgeries {
		if s.OperatingRoomID == nil || !s.Status.IsActive() {
			continue
		}
		byRoom[*s.OperatingRoomID] = append(byRoom[*s.OperatingRoomID], s)
	}
	for id := range byRoom {
		list := byRoom[id]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].ScheduledTime != list[j].ScheduledTime {
				return list[i].ScheduledTime < list[j].ScheduledTime
			}
			return list[i].ID < list[j].ID
		})
	}

	slots := make([]TimeSlot, 0, LastSlotHour-FirstSlotHour+1)
	for hour := FirstSlotHour; hour <= LastSlotHour; hour++ {
		start := models.NewClockTime(hour, 0)
		end := start.Add(60)

		cells := make(map[string]SlotOccupancy, len(rooms))
		for _, room := range rooms {
			cells[room.ScheduleKey()] = occupancyAt(byRoom[room.ID], start, end)
		}
		slots = append(slots, TimeSlot{Time: start.String(), Rooms: cells})
	}

	return DaySchedule{Date: date, TimeSlots: slots}
}

func occupancyAt(sorted []models.Surgery, start, end models.ClockTime) SlotOccupancy {
	for i := range sorted {
		s := sorted[i]
		if !s.Overlaps(start, end) {
			continue
		}
		occ := SlotOccupancy{
			Status:        SlotOccupied,
			Procedure:     &s.ProcedureName,
			SurgeryStatus: &s.Status,
			SurgeryID:     &s.ID,
		}
		if s.Patient != nil {
			name := s.Patient.FullName()
			occ.PatientName = &name
			occ.PatientCode = &s.Patient.PatientCode
		}
		return occ
	}
	return SlotOccupancy{Status: SlotAvailable}
}

// BuildMonthAvailability produces one entry per calendar day of the month.
// counts is keyed by YYYY-MM-DD.
func BuildMonthAvailability(year int, month time.Month, counts map[string]int, today models.Date) MonthAvailability {
	first := models.NewDate(year, month, 1)
	days := daysIn(year, month)

	out := MonthAvailability{Year: year, Month: int(month), Days: make([]DayAvailability, 0, days)}
	for day := 1; day <= days; day++ {
		date := first.AddDays(day - 1)
		count := counts[date.String()]
		out.Days = append(out.Days, DayAvailability{
			Date:         date,
			Day:          day,
			HasSurgeries: count > 0,
			SurgeryCount: count,
			IsPast:       date.Before(today),
		})
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
