package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/pkg/utils"
)

const minPasswordLength = 8

type DoctorStore interface {
	FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error)
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	UpdateDoctor(ctx context.Context, doctor *models.Doctor) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	RevokeRefreshTokensForDoctor(ctx context.Context, doctorID uint) error
}

type AuthService struct {
	doctors DoctorStore
	audit   AuditLogger
	tokens  *utils.TokenManager
	clock   func() time.Time
}

func NewAuthService(doctors DoctorStore, audit AuditLogger, tokens *utils.TokenManager) *AuthService {
	return &AuthService{
		doctors: doctors,
		audit:   audit,
		tokens:  tokens,
		clock:   time.Now,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	Doctor       DoctorResponse `json:"doctor"`
}

type DoctorResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization,omitempty"`
	Role           string `json:"role"`
	Status         string `json:"status"`
}

func toDoctorResponse(d *models.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		Email:          d.Email,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Specialization: d.Specialization,
		Role:           d.Role,
		Status:         d.Status,
	}
}

type RegisterRequest struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	Specialization string
	LicenseNumber  string
}

// ProfileUpdate carries the profile fields a doctor changes; nil means unchanged.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Specialization *string
	Password       *string
}

// Login authenticates a doctor and returns tokens
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	doctor, err := s.doctors.FindDoctorByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !utils.ComparePassword(doctor.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if doctor.Status != models.DoctorActive {
		return nil, apperr.Forbidden("account is %s", doctor.Status)
	}

	resp, err := s.issueTokens(ctx, doctor)
	if err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, &doctor.ID, "doctor_login", fmt.Sprintf("Doctor %s logged in", doctor.Email))
	return resp, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.Unauthorized("refresh token required")
	}

	token, err := s.doctors.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		return "", err
	}

	if s.clock().After(token.ExpiresAt) {
		return "", apperr.Unauthorized("refresh token expired")
	}
	if token.Doctor.Status != models.DoctorActive {
		return "", apperr.Forbidden("account is %s", token.Doctor.Status)
	}

	accessToken, err := s.tokens.GenerateAccessToken(token.Doctor.ID, token.Doctor.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes every refresh token of the doctor
func (s *AuthService) Logout(ctx context.Context, doctorID uint) error {
	if err := s.doctors.RevokeRefreshTokensForDoctor(ctx, doctorID); err != nil {
		return err
	}
	_ = s.audit.CreateAuditLog(ctx, &doctorID, "doctor_logout", "refresh tokens revoked")
	return nil
}

// Register creates a doctor account. New accounts always get the doctor role.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperr.Validation("email, first_name and last_name are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doctor := &models.Doctor{
		Email:          email,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		PasswordHash:   passwordHash,
		Role:           models.RoleDoctor,
		Status:         models.DoctorActive,
	}
	if err := s.doctors.CreateDoctor(ctx, doctor); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, doctor)
	if err != nil {
		return nil, err
	}

	_ = s.audit.CreateAuditLog(ctx, &doctor.ID, "doctor_registration", fmt.Sprintf("Doctor %s registered", doctor.Email))
	return resp, nil
}

func (s *AuthService) Me(ctx context.Context, doctorID uint) (*DoctorResponse, error) {
	doctor, err := s.doctors.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	resp := toDoctorResponse(doctor)
	return &resp, nil
}

// UpdateProfile changes the caller's own profile. A new password revokes
// every refresh token, so other sessions must log in again.
func (s *AuthService) UpdateProfile(ctx context.Context, doctorID uint, u ProfileUpdate) (*DoctorResponse, error) {
	if u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Phone == nil &&
		u.Specialization == nil && u.Password == nil {
		return nil, apperr.Validation("no fields to update")
	}

	doctor, err := s.doctors.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if u.FirstName != nil {
		doctor.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		doctor.LastName = strings.TrimSpace(*u.LastName)
	}
	if doctor.FirstName == "" || doctor.LastName == "" {
		return nil, apperr.Validation("first_name and last_name must not be empty")
	}
	if u.Email != nil {
		if doctor.Email = normalizeEmail(*u.Email); doctor.Email == "" {
			return nil, apperr.Validation("email must not be empty")
		}
	}
	if u.Phone != nil {
		doctor.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Specialization != nil {
		doctor.Specialization = strings.TrimSpace(*u.Specialization)
	}
	if u.Password != nil {
		if len(*u.Password) < minPasswordLength {
			return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
		}
		if doctor.PasswordHash, err = utils.HashPassword(*u.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.doctors.UpdateDoctor(ctx, doctor); err != nil {
		return nil, err
	}
	if u.Password != nil {
		if err := s.doctors.RevokeRefreshTokensForDoctor(ctx, doctorID); err != nil {
			return nil, err
		}
	}

	_ = s.audit.CreateAuditLog(ctx, &doctorID, "profile_updated", fmt.Sprintf("Doctor %s updated profile", doctor.Email))
	resp := toDoctorResponse(doctor)
	return &resp, nil
}

func (s *AuthService) RefreshTokenExpiry() time.Duration {
	return s.tokens.RefreshTokenExpiry()
}

func (s *AuthService) issueTokens(ctx context.Context, doctor *models.Doctor) (*LoginResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(doctor.ID, doctor.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := utils.GenerateRefreshToken()
	err = s.doctors.CreateRefreshToken(ctx, &models.RefreshToken{
		DoctorID:  doctor.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: s.clock().Add(s.tokens.RefreshTokenExpiry()),
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenExpiry().Seconds()),
		Doctor:       toDoctorResponse(doctor),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
