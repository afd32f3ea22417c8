package handler

import (
	"context"

	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DoctorService interface {
	Get(ctx context.Context, id uint) (*service.DoctorResponse, error)
	Details(ctx context.Context, id uint) (*service.DoctorDetails, error)
	Surgeries(ctx context.Context, id uint, view service.SurgeryView) ([]models.Surgery, error)
}

type DoctorHandler struct {
	doctors DoctorService
}

func NewDoctorHandler(doctors DoctorService) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doctor, err := h.doctors.Get(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, doctor)
}

// Details returns the doctor with surgery statistics
func (h *DoctorHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	details, err := h.doctors.Details(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, details)
}

// Surgeries lists a doctor's surgeries for one of the upcoming, cancelled,
// delayed or all views
func (h *DoctorHandler) Surgeries(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view := service.SurgeryView(c.Param("view"))
	surgeries, err := h.doctors.Surgeries(c.Request.Context(), id, view)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"view":      view,
		"surgeries": surgeries,
		"count":     len(surgeries),
	})
}
