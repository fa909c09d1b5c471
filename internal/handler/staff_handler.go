package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// StaffHandler serves the maintenance staff endpoints.
type StaffHandler struct {
	dashboard   *service.DashboardService
	maintenance *service.MaintenanceService
}

// NewStaffHandler creates a new handler.
func NewStaffHandler(dashboard *service.DashboardService, maintenance *service.MaintenanceService) *StaffHandler {
	return &StaffHandler{dashboard: dashboard, maintenance: maintenance}
}

func (h *StaffHandler) profile(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	if claims.ProfileID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no staff profile linked to this account"))
		return nil, false
	}
	return claims, true
}

// Dashboard godoc
// @Summary Staff dashboard
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/dashboard [get]
func (h *StaffHandler) Dashboard(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	board, err := h.dashboard.Staff(c.Request.Context(), claims.ProfileID, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}

// AvailableJobs godoc
// @Summary List approved jobs available to claim
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/maintenance/available [get]
func (h *StaffHandler) AvailableJobs(c *gin.Context) {
	items, err := h.maintenance.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// AssignedJobs godoc
// @Summary List own open jobs
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/maintenance/assigned [get]
func (h *StaffHandler) AssignedJobs(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	items, err := h.maintenance.ListAssigned(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// AcceptJob godoc
// @Summary Claim an approved job
// @Tags Staff
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/maintenance/{id}/accept [post]
func (h *StaffHandler) AcceptJob(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	m, err := h.maintenance.Accept(c.Request.Context(), c.Param("id"), claims.ProfileID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "job accepted", m)
}

// StartJob godoc
// @Summary Start an accepted job
// @Tags Staff
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/maintenance/{id}/start [post]
func (h *StaffHandler) StartJob(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	m, err := h.maintenance.Start(c.Request.Context(), c.Param("id"), claims.ProfileID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "job started", m)
}

// CompleteJob godoc
// @Summary Complete an in-progress job
// @Tags Staff
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/maintenance/{id}/complete [post]
func (h *StaffHandler) CompleteJob(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	m, err := h.maintenance.Complete(c.Request.Context(), c.Param("id"), claims.ProfileID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "job completed", m)
}
