package models

import "time"

// Patient represents the patients table
type Patient struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	PatientCode           string    `gorm:"size:20;uniqueIndex;not null" json:"patient_code"`
	FirstName             string    `gorm:"size:100;not null" json:"first_name"`
	LastName              string    `gorm:"size:100;not null" json:"last_name"`
	DateOfBirth           *Date     `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender                string    `gorm:"size:10" json:"gender,omitempty"`
	Email                 string    `gorm:"size:255" json:"email,omitempty"`
	Phone                 string    `gorm:"size:20" json:"phone,omitempty"`
	Address               string    `gorm:"type:text" json:"address,omitempty"`
	EmergencyContactName  string    `gorm:"size:200" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `gorm:"size:20" json:"emergency_contact_phone,omitempty"`
	BloodType             string    `gorm:"size:5" json:"blood_type,omitempty"`
	Allergies             string    `gorm:"type:text" json:"allergies,omitempty"`
	MedicalHistory        string    `gorm:"type:text" json:"medical_history,omitempty"`
	Status                string    `gorm:"type:enum('active','inactive','deceased');default:'active'" json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
