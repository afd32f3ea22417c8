package handler

import (
	"context"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationService interface {
	List(ctx context.Context, doctorID uint) ([]models.Notification, error)
	UnreadCount(ctx context.Context, doctorID uint) (int64, error)
	MarkRead(ctx context.Context, id, doctorID uint) error
}

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.notifications.List(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"notifications": list,
		"count":         len(list),
	})
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, middleware.DoctorID(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.MessageResponse(c, "Notification marked as read")
}
