package repository

import (
	"context"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// FindDoctorByEmail finds a doctor by login email
func (r *DoctorRepository) FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, storeErr("find doctor by email", err)
	}
	return &doctor, nil
}

func (r *DoctorRepository) FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).First(&doctor, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, storeErr("find doctor", err)
	}
	return &doctor, nil
}

// CreateDoctor inserts a doctor; a taken email is a Conflict
func (r *DoctorRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("email already registered")
		}
		return storeErr("create doctor", err)
	}
	return nil
}

// UpdateDoctor saves a doctor's profile; a taken email is a Conflict
func (r *DoctorRepository) UpdateDoctor(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Save(doctor).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Conflict("email already registered")
		}
		return storeErr("update doctor", err)
	}
	return nil
}

func (r *DoctorRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return storeErr("create refresh token", r.db.WithContext(ctx).Create(token).Error)
}

// FindRefreshTokenByHash finds a live refresh token by its hash
func (r *DoctorRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = ?", hash, false).
		Preload("Doctor").
		First(&token).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.Unauthorized("refresh token not found or revoked")
		}
		return nil, storeErr("find refresh token", err)
	}
	return &token, nil
}

// RevokeRefreshTokensForDoctor revokes every live token of a doctor
func (r *DoctorRepository) RevokeRefreshTokensForDoctor(ctx context.Context, doctorID uint) error {
	err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("doctor_id = ? AND revoked = ?", doctorID, false).
		Update("revoked", true).Error
	return storeErr("revoke refresh tokens", err)
}
