package models

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomInUse       RoomStatus = "in_use"
	RoomMaintenance RoomStatus = "maintenance"
	RoomUnavailable RoomStatus = "unavailable"
	RoomReserved    RoomStatus = "reserved"
)

// IsBookable reports whether the room may take new bookings.
func (s RoomStatus) IsBookable() bool {
	return s != RoomMaintenance && s != RoomUnavailable
}

// IsManual reports whether the status was set by staff and must not be
// replaced by the occupancy derived from bookings.
func (s RoomStatus) IsManual() bool {
	return !s.IsBookable()
}

func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch st := RoomStatus(s); st {
	case RoomAvailable, RoomInUse, RoomMaintenance, RoomUnavailable, RoomReserved:
		return st, true
	}
	return "", false
}

// OperatingRoom represents the operating_rooms table
type OperatingRoom struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	RoomNumber string     `gorm:"size:20;uniqueIndex;not null" json:"room_number"`
	RoomName   string     `gorm:"size:100" json:"room_name,omitempty"`
	Capacity   int        `gorm:"default:1" json:"capacity"`
	Location   string     `gorm:"size:100" json:"location,omitempty"`
	Status     RoomStatus `gorm:"type:enum('available','in_use','maintenance','unavailable','reserved');default:'available'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (OperatingRoom) TableName() string {
	return "operating_rooms"
}

// ScheduleKey is the key a room is listed under in the day schedule grid.
func (r OperatingRoom) ScheduleKey() string {
	return "or_" + r.RoomNumber
}
