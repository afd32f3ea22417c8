package service

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, roomID, date, start, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocker) ReleaseSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, token string) error {
	args := m.Called(ctx, roomID, date, start, token)
	return args.Error(0)
}

type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) CreateAuditLog(ctx context.Context, doctorID *uint, action string, details string) error {
	args := m.Called(ctx, doctorID, action, details)
	return args.Error(0)
}

type MockDoctorStore struct {
	mock.Mock
}

func (m *MockDoctorStore) FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorStore) FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorStore) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorStore) UpdateDoctor(ctx context.Context, doctor *models.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockDoctorStore) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockDoctorStore) RevokeRefreshTokensForDoctor(ctx context.Context, doctorID uint) error {
	args := m.Called(ctx, doctorID)
	return args.Error(0)
}

type MockPatientStore struct {
	mock.Mock
}

func (m *MockPatientStore) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

func (m *MockPatientStore) ListPatients(ctx context.Context, f repository.PatientFilter) ([]models.Patient, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Patient), args.Error(1)
}

func (m *MockPatientStore) CreatePatient(ctx context.Context, patient *models.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientStore) UpdatePatient(ctx context.Context, patient *models.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *MockPatientStore) DeletePatient(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPatientStore) ListSurgeries(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Surgery), args.Error(1)
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) ListForDoctor(ctx context.Context, doctorID uint, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, doctorID, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationStore) CountUnread(ctx context.Context, doctorID uint) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id, doctorID uint, at time.Time) error {
	args := m.Called(ctx, id, doctorID, at)
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockDoctorDirectory struct {
	mock.Mock
}

func (m *MockDoctorDirectory) FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorDirectory) DoctorSurgeryStats(ctx context.Context, doctorID uint, today models.Date) (*repository.DoctorStats, error) {
	args := m.Called(ctx, doctorID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DoctorStats), args.Error(1)
}

func (m *MockDoctorDirectory) ListSurgeries(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Surgery), args.Error(1)
}
