package handler

import (
	"context"
	"net/http"
	"strconv"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientService interface {
	Get(ctx context.Context, id uint) (*models.Patient, error)
	List(ctx context.Context, f repository.PatientFilter) ([]models.Patient, error)
	Create(ctx context.Context, p *models.Patient, actorID uint) error
	Update(ctx context.Context, id uint, u service.PatientUpdate, actorID uint) (*models.Patient, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	Surgeries(ctx context.Context, id uint) ([]models.Surgery, error)
}

type PatientHandler struct {
	patients PatientService
}

func NewPatientHandler(patients PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

type CreatePatientRequest struct {
	PatientCode           string  `json:"patient_code" binding:"required,max=20"`
	FirstName             string  `json:"first_name" binding:"required,max=100"`
	LastName              string  `json:"last_name" binding:"required,max=100"`
	DateOfBirth           *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Gender                string  `json:"gender" binding:"omitempty,oneof=male female other"`
	Email                 string  `json:"email" binding:"omitempty,email"`
	Phone                 string  `json:"phone" binding:"max=20"`
	Address               string  `json:"address"`
	EmergencyContactName  string  `json:"emergency_contact_name" binding:"max=200"`
	EmergencyContactPhone string  `json:"emergency_contact_phone" binding:"max=20"`
	BloodType             string  `json:"blood_type" binding:"max=5"`
	Allergies             string  `json:"allergies"`
	MedicalHistory        string  `json:"medical_history"`
}

// UpdatePatientRequest is a partial update; omitted fields stay unchanged.
type UpdatePatientRequest struct {
	FirstName             *string `json:"first_name" binding:"omitempty,max=100"`
	LastName              *string `json:"last_name" binding:"omitempty,max=100"`
	DateOfBirth           *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Gender                *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Email                 *string `json:"email" binding:"omitempty,email"`
	Phone                 *string `json:"phone" binding:"omitempty,max=20"`
	Address               *string `json:"address"`
	EmergencyContactName  *string `json:"emergency_contact_name" binding:"omitempty,max=200"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" binding:"omitempty,max=20"`
	BloodType             *string `json:"blood_type" binding:"omitempty,max=5"`
	Allergies             *string `json:"allergies"`
	MedicalHistory        *string `json:"medical_history"`
	Status                *string `json:"status" binding:"omitempty,oneof=active inactive deceased"`
}

func (h *PatientHandler) List(c *gin.Context) {
	f := repository.PatientFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	var err error
	if raw := c.Query("limit"); raw != "" {
		if f.Limit, err = strconv.Atoi(raw); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if f.Offset, err = strconv.Atoi(raw); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid offset")
			return
		}
	}

	patients, err := h.patients.List(c.Request.Context(), f)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	patient, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, patient)
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dob, err := optionalDate(req.DateOfBirth)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date_of_birth")
		return
	}

	patient := &models.Patient{
		PatientCode:           req.PatientCode,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           dob,
		Gender:                req.Gender,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
	}
	if err := h.patients.Create(c.Request.Context(), patient, middleware.DoctorID(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dob, err := optionalDate(req.DateOfBirth)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date_of_birth")
		return
	}

	patient, err := h.patients.Update(c.Request.Context(), id, service.PatientUpdate{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           dob,
		Gender:                req.Gender,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
		Status:                req.Status,
	}, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, patient)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.patients.Delete(c.Request.Context(), id, middleware.DoctorID(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Surgeries lists every surgery of one patient
func (h *PatientHandler) Surgeries(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	surgeries, err := h.patients.Surgeries(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"surgeries": surgeries,
		"count":     len(surgeries),
	})
}
