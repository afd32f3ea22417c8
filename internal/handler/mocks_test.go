package handler

import (
	"context"
	"time"

	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
	"hospital-or-scheduling/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSchedule struct {
	mock.Mock
}

func (m *MockSchedule) MonthAvailability(ctx context.Context, year, month int) (*service.MonthAvailability, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MonthAvailability), args.Error(1)
}

func (m *MockSchedule) DaySchedule(ctx context.Context, date models.Date) (*service.DaySchedule, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DaySchedule), args.Error(1)
}

func (m *MockSchedule) Book(ctx context.Context, req service.BookingRequest) (*service.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingResult), args.Error(1)
}

type MockSurgeries struct {
	mock.Mock
}

func (m *MockSurgeries) surgery(args mock.Arguments) (*models.Surgery, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Surgery), args.Error(1)
}

func (m *MockSurgeries) List(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Surgery), args.Error(1)
}

func (m *MockSurgeries) Get(ctx context.Context, id uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id))
}

func (m *MockSurgeries) Create(ctx context.Context, req service.BookingRequest) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, req))
}

func (m *MockSurgeries) Update(ctx context.Context, id uint, u service.SurgeryUpdate, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, u, actorID))
}

func (m *MockSurgeries) UpdateStatus(ctx context.Context, id uint, change service.StatusChange, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, change, actorID))
}

func (m *MockSurgeries) Delay(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, actorID))
}

func (m *MockSurgeries) Cancel(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, actorID))
}

func (m *MockSurgeries) Complete(ctx context.Context, id, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, actorID))
}

func (m *MockSurgeries) AddParticipant(ctx context.Context, id uint, name string, actorID uint) (*models.Surgery, error) {
	return m.surgery(m.Called(ctx, id, name, actorID))
}

type MockRooms struct {
	mock.Mock
}

func (m *MockRooms) List(ctx context.Context) ([]models.OperatingRoom, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.OperatingRoom), args.Error(1)
}

func (m *MockRooms) Create(ctx context.Context, req service.CreateRoomRequest, actorID uint) (*models.OperatingRoom, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OperatingRoom), args.Error(1)
}

func (m *MockRooms) SetStatus(ctx context.Context, id uint, status models.RoomStatus, actorID uint) (*models.OperatingRoom, error) {
	args := m.Called(ctx, id, status, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OperatingRoom), args.Error(1)
}

type MockPatients struct {
	mock.Mock
}

func (m *MockPatients) Get(ctx context.Context, id uint) (*models.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

func (m *MockPatients) List(ctx context.Context, f repository.PatientFilter) ([]models.Patient, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Patient), args.Error(1)
}

func (m *MockPatients) Create(ctx context.Context, p *models.Patient, actorID uint) error {
	args := m.Called(ctx, p, actorID)
	return args.Error(0)
}

func (m *MockPatients) Update(ctx context.Context, id uint, u service.PatientUpdate, actorID uint) (*models.Patient, error) {
	args := m.Called(ctx, id, u, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

func (m *MockPatients) Delete(ctx context.Context, id uint, actorID uint) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockPatients) Surgeries(ctx context.Context, id uint) ([]models.Surgery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Surgery), args.Error(1)
}

type MockDoctors struct {
	mock.Mock
}

func (m *MockDoctors) Get(ctx context.Context, id uint) (*service.DoctorResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DoctorResponse), args.Error(1)
}

func (m *MockDoctors) Details(ctx context.Context, id uint) (*service.DoctorDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DoctorDetails), args.Error(1)
}

func (m *MockDoctors) Surgeries(ctx context.Context, id uint, view service.SurgeryView) ([]models.Surgery, error) {
	args := m.Called(ctx, id, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Surgery), args.Error(1)
}

type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) List(ctx context.Context, doctorID uint) ([]models.Notification, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotifications) UnreadCount(ctx context.Context, doctorID uint) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifications) MarkRead(ctx context.Context, id, doctorID uint) error {
	args := m.Called(ctx, id, doctorID)
	return args.Error(0)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResponse), args.Error(1)
}

func (m *MockAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuth) Logout(ctx context.Context, doctorID uint) error {
	return m.Called(ctx, doctorID).Error(0)
}

func (m *MockAuth) Register(ctx context.Context, req service.RegisterRequest) (*service.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResponse), args.Error(1)
}

func (m *MockAuth) Me(ctx context.Context, doctorID uint) (*service.DoctorResponse, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DoctorResponse), args.Error(1)
}

func (m *MockAuth) UpdateProfile(ctx context.Context, doctorID uint, u service.ProfileUpdate) (*service.DoctorResponse, error) {
	args := m.Called(ctx, doctorID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DoctorResponse), args.Error(1)
}

func (m *MockAuth) RefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
