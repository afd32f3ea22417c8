package service

import (
	"context"
	"fmt"
	"strings"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
)

const (
	defaultPatientLimit = 100
	maxPatientLimit     = 1000
)

type PatientStore interface {
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	ListPatients(ctx context.Context, f repository.PatientFilter) ([]models.Patient, error)
	CreatePatient(ctx context.Context, patient *models.Patient) error
	UpdatePatient(ctx context.Context, patient *models.Patient) error
	DeletePatient(ctx context.Context, id uint) error
	ListSurgeries(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error)
}

// PatientUpdate carries the fields of a partial update; nil means unchanged.
// The patient code is fixed once registered.
type PatientUpdate struct {
	FirstName             *string
	LastName              *string
	DateOfBirth           *models.Date
	Gender                *string
	Email                 *string
	Phone                 *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	BloodType             *string
	Allergies             *string
	MedicalHistory        *string
	Status                *string
}

func (u PatientUpdate) apply(p *models.Patient) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	set(&p.FirstName, u.FirstName)
	set(&p.LastName, u.LastName)
	set(&p.Gender, u.Gender)
	set(&p.Email, u.Email)
	set(&p.Phone, u.Phone)
	set(&p.Address, u.Address)
	set(&p.EmergencyContactName, u.EmergencyContactName)
	set(&p.EmergencyContactPhone, u.EmergencyContactPhone)
	set(&p.BloodType, u.BloodType)
	set(&p.Allergies, u.Allergies)
	set(&p.MedicalHistory, u.MedicalHistory)
	set(&p.Status, u.Status)
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		p.DateOfBirth = &dob
		changed = true
	}
	return changed
}

type PatientService struct {
	patients PatientStore
	audit    AuditLogger
}

func NewPatientService(patients PatientStore, audit AuditLogger) *PatientService {
	return &PatientService{patients: patients, audit: audit}
}

func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	return s.patients.GetPatient(ctx, id)
}

func (s *PatientService) List(ctx context.Context, f repository.PatientFilter) ([]models.Patient, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPatientLimit
	}
	if f.Limit > maxPatientLimit {
		return nil, apperr.Validation("limit must not exceed %d", maxPatientLimit)
	}
	if f.Offset < 0 {
		return nil, apperr.Validation("offset must not be negative")
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.patients.ListPatients(ctx, f)
}

// Create registers a patient; the patient code must be unique.
func (s *PatientService) Create(ctx context.Context, p *models.Patient, actorID uint) error {
	p.PatientCode = strings.TrimSpace(p.PatientCode)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.PatientCode == "" || p.FirstName == "" || p.LastName == "" {
		return apperr.Validation("patient_code, first_name and last_name are required")
	}
	if p.Status == "" {
		p.Status = "active"
	}

	if err := s.patients.CreatePatient(ctx, p); err != nil {
		return err
	}
	_ = s.audit.CreateAuditLog(ctx, &actorID, "patient_created", "patient "+p.PatientCode)
	return nil
}

// Update applies a partial update to a patient.
func (s *PatientService) Update(ctx context.Context, id uint, u PatientUpdate, actorID uint) (*models.Patient, error) {
	patient, err := s.patients.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.apply(patient) {
		return nil, apperr.Validation("no fields to update")
	}
	if patient.FirstName == "" || patient.LastName == "" {
		return nil, apperr.Validation("first_name and last_name must not be empty")
	}
	switch patient.Status {
	case "active", "inactive", "deceased":
	default:
		return nil, apperr.Validation("invalid patient status %q", patient.Status)
	}

	if err := s.patients.UpdatePatient(ctx, patient); err != nil {
		return nil, err
	}
	_ = s.audit.CreateAuditLog(ctx, &actorID, "patient_updated", "patient "+patient.PatientCode)
	return patient, nil
}

// Delete removes a patient who has no surgeries on record.
func (s *PatientService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.patients.DeletePatient(ctx, id); err != nil {
		return err
	}
	_ = s.audit.CreateAuditLog(ctx, &actorID, "patient_deleted", fmt.Sprintf("patient %d", id))
	return nil
}

// Surgeries lists every surgery of a patient, latest slot first.
func (s *PatientService) Surgeries(ctx context.Context, id uint) ([]models.Surgery, error) {
	if _, err := s.patients.GetPatient(ctx, id); err != nil {
		return nil, err
	}
	return s.patients.ListSurgeries(ctx, repository.SurgeryFilter{PatientID: &id})
}
