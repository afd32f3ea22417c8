package models

import "time"

type SurgeryStatus string

const (
	SurgeryScheduled   SurgeryStatus = "scheduled"
	SurgeryInProgress  SurgeryStatus = "in_progress"
	SurgeryCompleted   SurgeryStatus = "completed"
	SurgeryCancelled   SurgeryStatus = "cancelled"
	SurgeryDelayed     SurgeryStatus = "delayed"
	SurgeryRescheduled SurgeryStatus = "rescheduled"
)

// InactiveStatuses are the terminal states; a surgery in either no longer holds its room.
var InactiveStatuses = []SurgeryStatus{SurgeryCancelled, SurgeryCompleted}

func ParseSurgeryStatus(s string) (SurgeryStatus, bool) {
	switch st := SurgeryStatus(s); st {
	case SurgeryScheduled, SurgeryInProgress, SurgeryCompleted, SurgeryCancelled, SurgeryDelayed, SurgeryRescheduled:
		return st, true
	}
	return "", false
}

func (s SurgeryStatus) IsActive() bool {
	return s != SurgeryCancelled && s != SurgeryCompleted
}

var surgeryTransitions = map[SurgeryStatus][]SurgeryStatus{
	SurgeryScheduled:   {SurgeryInProgress, SurgeryDelayed, SurgeryCancelled, SurgeryRescheduled, SurgeryCompleted},
	SurgeryDelayed:     {SurgeryInProgress, SurgeryCancelled, SurgeryCompleted, SurgeryScheduled, SurgeryRescheduled},
	SurgeryRescheduled: {SurgeryScheduled, SurgeryInProgress, SurgeryDelayed, SurgeryCancelled, SurgeryCompleted},
	SurgeryInProgress:  {SurgeryCompleted, SurgeryDelayed, SurgeryCancelled},
}

// CanTransitionTo reports whether a surgery in status s may move to next.
// Terminal states have no outgoing transitions.
func (s SurgeryStatus) CanTransitionTo(next SurgeryStatus) bool {
	for _, allowed := range surgeryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

func ParseUrgency(s string) (Urgency, bool) {
	switch u := Urgency(s); u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
		return u, true
	}
	return "", false
}

// Surgery represents the surgeries table. A surgery with an operating room
// occupies [ScheduledTime, ScheduledTime+DurationMinutes) on ScheduledDate.
type Surgery struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PatientID       uint           `gorm:"not null;index" json:"patient_id"`
	DoctorID        uint           `gorm:"not null;index" json:"doctor_id"`
	OperatingRoomID *uint          `gorm:"index" json:"operating_room_id"`
	SurgeryType     string         `gorm:"size:100" json:"surgery_type"`
	ProcedureName   string         `gorm:"size:200;not null" json:"procedure_name"`
	ScheduledDate   Date           `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime   ClockTime      `gorm:"column:start_minute;not null" json:"scheduled_time"`
	DurationMinutes int            `gorm:"column:estimated_duration_minutes;default:60" json:"estimated_duration_minutes"`
	Status          SurgeryStatus  `gorm:"type:enum('scheduled','in_progress','completed','cancelled','delayed','rescheduled');default:'scheduled'" json:"status"`
	UrgencyLevel    Urgency        `gorm:"type:enum('routine','urgent','emergency');default:'routine'" json:"urgency_level"`
	Participants    StringList     `gorm:"type:json" json:"participants"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	PostOpNotes     string         `gorm:"type:text" json:"post_op_notes,omitempty"`
	Complications   string         `gorm:"type:text" json:"complications,omitempty"`
	ActualStartTime *time.Time     `json:"actual_start_time"`
	ActualEndTime   *time.Time     `json:"actual_end_time"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Patient         *Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	OperatingRoom   *OperatingRoom `gorm:"foreignKey:OperatingRoomID" json:"operating_room,omitempty"`
}

func (Surgery) TableName() string {
	return "surgeries"
}

func (s Surgery) EndTime() ClockTime {
	return s.ScheduledTime.Add(s.DurationMinutes)
}

// Overlaps reports whether the surgery's interval intersects [start, end).
func (s Surgery) Overlaps(start, end ClockTime) bool {
	return s.ScheduledTime < end && s.EndTime() > start
}

// HoldsRoom reports whether the surgery currently blocks roomID.
func (s Surgery) HoldsRoom(roomID uint) bool {
	return s.Status.IsActive() && s.OperatingRoomID != nil && *s.OperatingRoomID == roomID
}
