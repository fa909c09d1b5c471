package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
	"github.com/aau-dhms/dhms-api/pkg/export"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// StudentHandler serves the student-facing endpoints: dashboard, room view,
// maintenance requests, laundry forms and penalties.
type StudentHandler struct {
	dashboard   *service.DashboardService
	maintenance *service.MaintenanceService
	laundry     *service.LaundryService
	assignments *service.AssignmentService
	penalties   *service.PenaltyService
	slips       *export.SlipRenderer
	publicURL   string
}

// NewStudentHandler creates a new handler. publicURL is the externally
// reachable base URL printed on laundry slips.
func NewStudentHandler(dashboard *service.DashboardService, maintenance *service.MaintenanceService, laundry *service.LaundryService, assignments *service.AssignmentService, penalties *service.PenaltyService, slips *export.SlipRenderer, publicURL string) *StudentHandler {
	return &StudentHandler{
		dashboard:   dashboard,
		maintenance: maintenance,
		laundry:     laundry,
		assignments: assignments,
		penalties:   penalties,
		slips:       slips,
		publicURL:   publicURL,
	}
}

func (h *StudentHandler) profile(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	if claims.ProfileID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no student profile linked to this account"))
		return nil, false
	}
	return claims, true
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	board, err := h.dashboard.Student(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}

// MyRoom godoc
// @Summary Current room with roommates
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/room [get]
func (h *StudentHandler) MyRoom(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	room, err := h.assignments.MyRoom(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room)
}

// SubmitMaintenance godoc
// @Summary Submit maintenance request
// @Tags Student
// @Accept json
// @Produce json
// @Param payload body dto.CreateMaintenanceRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/maintenance [post]
func (h *StudentHandler) SubmitMaintenance(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	var req dto.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid maintenance payload"))
		return
	}

	m, err := h.maintenance.Submit(c.Request.Context(), claims.ProfileID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "maintenance request submitted", m)
}

// ListMaintenance godoc
// @Summary List own maintenance requests
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/maintenance [get]
func (h *StudentHandler) ListMaintenance(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	items, err := h.maintenance.ListByStudent(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// GetMaintenance godoc
// @Summary Get own maintenance request
// @Tags Student
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/maintenance/{id} [get]
func (h *StudentHandler) GetMaintenance(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	m, err := h.maintenance.Get(c.Request.Context(), c.Param("id"), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, m)
}

// SubmitLaundry godoc
// @Summary Submit laundry form
// @Tags Student
// @Accept json
// @Produce json
// @Param payload body dto.CreateLaundryRequest true "Form payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/laundry [post]
func (h *StudentHandler) SubmitLaundry(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	var req dto.CreateLaundryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid laundry payload"))
		return
	}

	f, err := h.laundry.Submit(c.Request.Context(), claims.ProfileID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "laundry form submitted", f)
}

// ListLaundry godoc
// @Summary List own laundry forms
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/laundry [get]
func (h *StudentHandler) ListLaundry(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	items, err := h.laundry.ListByStudent(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// GetLaundry godoc
// @Summary Get own laundry form
// @Tags Student
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/laundry/{id} [get]
func (h *StudentHandler) GetLaundry(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	f, err := h.laundry.Get(c.Request.Context(), c.Param("id"), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, f)
}

// LaundrySlip godoc
// @Summary Download printable laundry slip
// @Tags Student
// @Produce application/pdf
// @Param id path string true "Form ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /student/laundry/{id}/slip [get]
func (h *StudentHandler) LaundrySlip(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	f, err := h.laundry.Get(c.Request.Context(), c.Param("id"), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	data := export.SlipData{
		FormCode:       f.FormCode,
		ItemCount:      f.ItemCount,
		ItemList:       f.ItemList,
		Status:         f.Status.Label(),
		SubmissionDate: f.SubmissionDate,
		RedeemURL:      fmt.Sprintf("%s/public/laundry/%s/taken", h.publicURL, f.FormCode),
	}
	if f.StudentName != nil {
		data.StudentName = *f.StudentName
	}
	if f.StudentCode != nil {
		data.StudentCode = *f.StudentCode
	}

	pdf, err := h.slips.Render(data)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render slip"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", f.FormCode))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListPenalties godoc
// @Summary List own penalties
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/penalties [get]
func (h *StudentHandler) ListPenalties(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	items, err := h.penalties.ListByStudent(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}
