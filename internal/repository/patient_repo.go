package repository

import (
	"context"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
)

type PatientFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, storeErr("get patient", err)
	}
	return &patient, nil
}

// ListPatients searches patients by name or code, newest first
func (r *PatientRepository) ListPatients(ctx context.Context, f PatientFilter) ([]models.Patient, error) {
	q := r.db.WithContext(ctx).Model(&models.Patient{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR patient_code LIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var patients []models.Patient
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&patients).Error
	if err != nil {
		return nil, storeErr("list patients", err)
	}
	return patients, nil
}

// UpdatePatient saves every column of patient; a taken code is a Conflict
func (r *PatientRepository) UpdatePatient(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Save(patient).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("patient code %s already exists", patient.PatientCode)
		}
		return storeErr("update patient", err)
	}
	return nil
}

// DeletePatient removes a patient. Surgeries keep their patient, so a
// patient with any surgery on record cannot be deleted.
func (r *PatientRepository) DeletePatient(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Patient{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return apperr.Conflict("patient %d has surgeries on record", id)
		}
		return storeErr("delete patient", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}

func (r *PatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("patient code %s already exists", patient.PatientCode)
		}
		return storeErr("create patient", err)
	}
	return nil
}
