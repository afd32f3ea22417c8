package handler

import (
	"context"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomService interface {
	List(ctx context.Context) ([]models.OperatingRoom, error)
	Create(ctx context.Context, req service.CreateRoomRequest, actorID uint) (*models.OperatingRoom, error)
	SetStatus(ctx context.Context, id uint, status models.RoomStatus, actorID uint) (*models.OperatingRoom, error)
}

type RoomHandler struct {
	rooms RoomService
}

func NewRoomHandler(rooms RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" binding:"required,max=20"`
	RoomName   string `json:"room_name" binding:"max=100"`
	Capacity   int    `json:"capacity" binding:"omitempty,min=1"`
	Location   string `json:"location" binding:"max=100"`
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available maintenance unavailable"`
}

// GetAllRooms lists every operating room ordered by room number
func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// CreateRoom creates a new operating room (admin only)
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), service.CreateRoomRequest{
		RoomNumber: req.RoomNumber,
		RoomName:   req.RoomName,
		Capacity:   req.Capacity,
		Location:   req.Location,
	}, middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// UpdateStatus takes a room out of service or hands it back (admin only)
func (h *RoomHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.SetStatus(c.Request.Context(), id, models.RoomStatus(req.Status), middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Room status updated",
		"room":    room,
	})
}
