package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SurgeryService interface {
	List(ctx context.Context, f repository.SurgeryFilter) ([]models.Surgery, error)
	Get(ctx context.Context, id uint) (*models.Surgery, error)
	Create(ctx context.Context, req service.BookingRequest) (*models.Surgery, error)
	Update(ctx context.Context, id uint, u service.SurgeryUpdate, actorID uint) (*models.Surgery, error)
	UpdateStatus(ctx context.Context, id uint, change service.StatusChange, actorID uint) (*models.Surgery, error)
	Delay(ctx context.Context, id, actorID uint) (*models.Surgery, error)
	Cancel(ctx context.Context, id, actorID uint) (*models.Surgery, error)
	Complete(ctx context.Context, id, actorID uint) (*models.Surgery, error)
	AddParticipant(ctx context.Context, id uint, name string, actorID uint) (*models.Surgery, error)
}

type SurgeryHandler struct {
	surgeries SurgeryService
}

func NewSurgeryHandler(surgeries SurgeryService) *SurgeryHandler {
	return &SurgeryHandler{surgeries: surgeries}
}

type CreateSurgeryRequest struct {
	PatientID       uint     `json:"patient_id" binding:"required"`
	DoctorID        uint     `json:"doctor_id"`
	OperatingRoomID uint     `json:"operating_room_id"`
	SurgeryType     string   `json:"surgery_type" binding:"required,max=100"`
	ProcedureName   string   `json:"procedure_name" binding:"required,max=200"`
	ScheduledDate   string   `json:"scheduled_date" binding:"required,isodate"`
	ScheduledTime   string   `json:"scheduled_time" binding:"required,clock"`
	DurationMinutes int      `json:"duration_minutes" binding:"omitempty,min=1,max=720"`
	UrgencyLevel    string   `json:"urgency_level" binding:"omitempty,oneof=routine urgent emergency"`
	Participants    []string `json:"participants"`
	Notes           string   `json:"notes"`
}

type UpdateSurgeryRequest struct {
	OperatingRoomID *uint    `json:"operating_room_id"`
	ProcedureName   *string  `json:"procedure_name" binding:"omitempty,max=200"`
	ScheduledDate   *string  `json:"scheduled_date" binding:"omitempty,isodate"`
	ScheduledTime   *string  `json:"scheduled_time" binding:"omitempty,clock"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=1,max=720"`
	UrgencyLevel    *string  `json:"urgency_level" binding:"omitempty,oneof=routine urgent emergency"`
	Participants    []string `json:"participants"`
	Notes           *string  `json:"notes"`
	PostOpNotes     *string  `json:"post_op_notes"`
	Complications   *string  `json:"complications"`
}

type StatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
}

type ParticipantRequest struct {
	ParticipantName string `json:"participant_name" binding:"required,max=200"`
}

// List returns surgeries filtered by status, date and doctor, newest first
func (h *SurgeryHandler) List(c *gin.Context) {
	var f repository.SurgeryFilter
	f.Status = models.SurgeryStatus(c.Query("status"))

	if raw := c.Query("date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		f.Date = &date
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid doctor_id")
			return
		}
		doctorID := uint(id)
		f.DoctorID = &doctorID
	}

	surgeries, err := h.surgeries.List(c.Request.Context(), f)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"surgeries": surgeries,
		"count":     len(surgeries),
	})
}

func (h *SurgeryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	surgery, err := h.surgeries.Get(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, surgery)
}

// Create schedules a surgery; a room is optional
func (h *SurgeryHandler) Create(c *gin.Context) {
	var req CreateSurgeryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, start, ok := parseSlot(c, req.ScheduledDate, req.ScheduledTime)
	if !ok {
		return
	}
	doctorID := req.DoctorID
	if doctorID == 0 {
		doctorID = middleware.DoctorID(c)
	}

	surgery, err := h.surgeries.Create(c.Request.Context(), service.BookingRequest{
		RoomID:          req.OperatingRoomID,
		PatientID:       req.PatientID,
		DoctorID:        doctorID,
		Date:            date,
		Time:            start,
		ProcedureName:   req.ProcedureName,
		SurgeryType:     req.SurgeryType,
		DurationMinutes: req.DurationMinutes,
		Urgency:         models.Urgency(req.UrgencyLevel),
		Participants:    req.Participants,
		Notes:           req.Notes,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, surgery)
}

// Update applies a partial update
func (h *SurgeryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateSurgeryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, err := optionalDate(req.ScheduledDate)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid scheduled_date")
		return
	}
	start, err := optionalClock(req.ScheduledTime)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid scheduled_time")
		return
	}
	var urgency *models.Urgency
	if req.UrgencyLevel != nil {
		u := models.Urgency(*req.UrgencyLevel)
		urgency = &u
	}

	surgery, err := h.surgeries.Update(c.Request.Context(), id, service.SurgeryUpdate{
		OperatingRoomID: req.OperatingRoomID,
		ProcedureName:   req.ProcedureName,
		ScheduledDate:   date,
		ScheduledTime:   start,
		DurationMinutes: req.DurationMinutes,
		UrgencyLevel:    urgency,
		Participants:    req.Participants,
		Notes:           req.Notes,
		PostOpNotes:     req.PostOpNotes,
		Complications:   req.Complications,
	}, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, surgery)
}

// UpdateStatus is the generic status change
func (h *SurgeryHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	surgery, err := h.surgeries.UpdateStatus(c.Request.Context(), id, service.StatusChange{
		Status:          models.SurgeryStatus(req.Status),
		ActualStartTime: req.ActualStartTime,
		ActualEndTime:   req.ActualEndTime,
	}, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, surgery)
}

func (h *SurgeryHandler) AddParticipant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	surgery, err := h.surgeries.AddParticipant(c.Request.Context(), id, req.ParticipantName, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, surgery)
}

func (h *SurgeryHandler) Delay(c *gin.Context) {
	h.transition(c, h.surgeries.Delay, "Surgery delayed")
}

func (h *SurgeryHandler) Cancel(c *gin.Context) {
	h.transition(c, h.surgeries.Cancel, "Surgery cancelled")
}

func (h *SurgeryHandler) Complete(c *gin.Context) {
	h.transition(c, h.surgeries.Complete, "Surgery completed")
}

func (h *SurgeryHandler) transition(c *gin.Context, fn func(ctx context.Context, id, actorID uint) (*models.Surgery, error), message string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	surgery, err := fn(c.Request.Context(), id, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": message,
		"surgery": surgery,
	})
}
