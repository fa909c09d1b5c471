package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/service"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// RoomHandler serves dorm and room reads used by proctors during assignment.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler creates a new handler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// ListDorms godoc
// @Summary List dorms
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dorms [get]
func (h *RoomHandler) ListDorms(c *gin.Context) {
	dorms, err := h.rooms.ListDorms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dorms)
}

// ListRooms godoc
// @Summary List rooms of a dorm
// @Tags Rooms
// @Produce json
// @Param id path string true "Dorm ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dorms/{id}/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListRooms(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// ListAvailableRooms godoc
// @Summary List rooms with free beds
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms/available [get]
func (h *RoomHandler) ListAvailableRooms(c *gin.Context) {
	rooms, err := h.rooms.ListAvailableRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room)
}
