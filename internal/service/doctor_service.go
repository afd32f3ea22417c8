package service

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
)

type DoctorDirectory interface {
	FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error)
	DoctorSurgeryStats(ctx context.Context, doctorID uint, today models.Date) (*repository.DoctorStats, error)
	ListSurgeries(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error)
}

// SurgeryView names a preset listing of one doctor's surgeries.
type SurgeryView string

const (
	ViewUpcoming  SurgeryView = "upcoming"
	ViewCancelled SurgeryView = "cancelled"
	ViewDelayed   SurgeryView = "delayed"
	ViewAll       SurgeryView = "all"
)

// DoctorDetails is a doctor's profile with surgery statistics.
type DoctorDetails struct {
	DoctorResponse
	Phone         string                 `json:"phone,omitempty"`
	LicenseNumber string                 `json:"license_number,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Statistics    repository.DoctorStats `json:"statistics"`
}

type DoctorService struct {
	doctors DoctorDirectory
	loc     *time.Location
	clock   func() time.Time
}

func NewDoctorService(doctors DoctorDirectory, loc *time.Location) *DoctorService {
	if loc == nil {
		loc = time.UTC
	}
	return &DoctorService{doctors: doctors, loc: loc, clock: time.Now}
}

func (s *DoctorService) today() models.Date {
	return models.DateOf(s.clock().In(s.loc))
}

func (s *DoctorService) Get(ctx context.Context, id uint) (*DoctorResponse, error) {
	doctor, err := s.doctors.FindDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDoctorResponse(doctor)
	return &resp, nil
}

// Details returns the doctor with counts of surgeries, distinct patients and
// upcoming scheduled surgeries.
func (s *DoctorService) Details(ctx context.Context, id uint) (*DoctorDetails, error) {
	doctor, err := s.doctors.FindDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.doctors.DoctorSurgeryStats(ctx, id, s.today())
	if err != nil {
		return nil, err
	}
	return &DoctorDetails{
		DoctorResponse: toDoctorResponse(doctor),
		Phone:          doctor.Phone,
		LicenseNumber:  doctor.LicenseNumber,
		CreatedAt:      doctor.CreatedAt,
		Statistics:     *stats,
	}, nil
}

// Surgeries lists a doctor's surgeries for a view. Upcoming and delayed run
// earliest first, cancelled most recently cancelled first, all latest first.
func (s *DoctorService) Surgeries(ctx context.Context, id uint, view SurgeryView) ([]models.Surgery, error) {
	f := repository.SurgeryFilter{DoctorID: &id}
	switch view {
	case ViewUpcoming:
		today := s.today()
		f.Status, f.From, f.Order = models.SurgeryScheduled, &today, repository.EarliestSlotFirst
	case ViewCancelled:
		f.Status, f.Order = models.SurgeryCancelled, repository.RecentlyUpdatedFirst
	case ViewDelayed:
		f.Status, f.Order = models.SurgeryDelayed, repository.EarliestSlotFirst
	case ViewAll:
		f.Order = repository.LatestSlotFirst
	default:
		return nil, apperr.Validation("unknown surgery view %q", view)
	}

	if _, err := s.doctors.FindDoctorByID(ctx, id); err != nil {
		return nil, err
	}
	return s.doctors.ListSurgeries(ctx, f)
}
