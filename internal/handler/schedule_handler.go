package handler

import (
	"context"
	"net/http"
	"strconv"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleService interface {
	MonthAvailability(ctx context.Context, year, month int) (*service.MonthAvailability, error)
	DaySchedule(ctx context.Context, date models.Date) (*service.DaySchedule, error)
	Book(ctx context.Context, req service.BookingRequest) (*service.BookingResult, error)
}

type ScheduleHandler struct {
	schedule ScheduleService
}

func NewScheduleHandler(schedule ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

type BookORRequest struct {
	OperatingRoomID uint     `json:"operating_room_id" binding:"required"`
	PatientID       uint     `json:"patient_id" binding:"required"`
	DoctorID        uint     `json:"doctor_id"`
	ScheduledDate   string   `json:"scheduled_date" binding:"required,isodate"`
	ScheduledTime   string   `json:"scheduled_time" binding:"required,clock"`
	ProcedureName   string   `json:"procedure_name" binding:"required,max=200"`
	SurgeryType     string   `json:"surgery_type" binding:"required,max=100"`
	DurationMinutes int      `json:"duration_minutes" binding:"omitempty,min=1,max=720"`
	UrgencyLevel    string   `json:"urgency_level" binding:"omitempty,oneof=routine urgent emergency"`
	Participants    []string `json:"participants"`
	Notes           string   `json:"notes"`
}

// GetMonth returns per-day surgery counts for a calendar month
func (h *ScheduleHandler) GetMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid month")
		return
	}

	availability, err := h.schedule.MonthAvailability(c.Request.Context(), year, month)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, availability)
}

// GetDay returns the hourly room grid for one date
func (h *ScheduleHandler) GetDay(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	day, err := h.schedule.DaySchedule(c.Request.Context(), date)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, day)
}

// Book reserves an operating room slot. The booking doctor defaults to the caller.
func (h *ScheduleHandler) Book(c *gin.Context) {
	var req BookORRequest
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

	result, err := h.schedule.Book(c.Request.Context(), service.BookingRequest{
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
	utils.CreatedResponse(c, result)
}
