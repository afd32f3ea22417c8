package models

import "time"

const (
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"

	DoctorActive   = "active"
	DoctorInactive = "inactive"
	DoctorOnLeave  = "on_leave"
)

// Doctor represents the doctors table
type Doctor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone          string    `gorm:"size:20" json:"phone,omitempty"`
	Specialization string    `gorm:"size:100" json:"specialization,omitempty"`
	LicenseNumber  string    `gorm:"size:50" json:"license_number,omitempty"`
	PasswordHash   string    `gorm:"not null;size:255" json:"-"`
	Role           string    `gorm:"type:enum('doctor','admin');default:'doctor'" json:"role"`
	Status         string    `gorm:"type:enum('active','inactive','on_leave');default:'active'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	Doctor    Doctor    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
