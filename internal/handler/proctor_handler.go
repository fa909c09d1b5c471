package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
	"github.com/aau-dhms/dhms-api/pkg/export"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// ProctorHandler serves the proctor endpoints: approval queues, room
// assignment and the penalty ledger.
type ProctorHandler struct {
	dashboard   *service.DashboardService
	maintenance *service.MaintenanceService
	laundry     *service.LaundryService
	assignments *service.AssignmentService
	penalties   *service.PenaltyService
	ledger      *export.LedgerWriter
}

// NewProctorHandler creates a new handler.
func NewProctorHandler(dashboard *service.DashboardService, maintenance *service.MaintenanceService, laundry *service.LaundryService, assignments *service.AssignmentService, penalties *service.PenaltyService, ledger *export.LedgerWriter) *ProctorHandler {
	return &ProctorHandler{
		dashboard:   dashboard,
		maintenance: maintenance,
		laundry:     laundry,
		assignments: assignments,
		penalties:   penalties,
		ledger:      ledger,
	}
}

// Dashboard godoc
// @Summary Proctor dashboard
// @Tags Proctor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /proctor/dashboard [get]
func (h *ProctorHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	board, err := h.dashboard.Proctor(c.Request.Context(), claims.ProfileID, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}

// Students godoc
// @Summary List students of the proctor's dorm
// @Description Actively assigned students with their room numbers
// @Tags Proctor
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /proctor/students [get]
func (h *ProctorHandler) Students(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	residents, err := h.assignments.DormResidents(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, residents)
}

// PendingMaintenance godoc
// @Summary List maintenance requests awaiting approval
// @Tags Proctor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /proctor/maintenance/pending [get]
func (h *ProctorHandler) PendingMaintenance(c *gin.Context) {
	items, err := h.maintenance.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// ApproveMaintenance godoc
// @Summary Approve maintenance request
// @Tags Proctor
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proctor/maintenance/{id}/approve [post]
func (h *ProctorHandler) ApproveMaintenance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	m, err := h.maintenance.Approve(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "maintenance request approved", m)
}

// RejectMaintenance godoc
// @Summary Reject maintenance request
// @Tags Proctor
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.RejectRequest false "Rejection reason"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proctor/maintenance/{id}/reject [post]
func (h *ProctorHandler) RejectMaintenance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
			return
		}
	}

	m, err := h.maintenance.Reject(c.Request.Context(), c.Param("id"), claims.UserID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "maintenance request rejected", m)
}

// PendingLaundry godoc
// @Summary List laundry forms awaiting approval
// @Tags Proctor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /proctor/laundry/pending [get]
func (h *ProctorHandler) PendingLaundry(c *gin.Context) {
	items, err := h.laundry.ListPendingProctor(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// ApproveLaundry godoc
// @Summary Approve laundry form
// @Tags Proctor
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proctor/laundry/{id}/approve [post]
func (h *ProctorHandler) ApproveLaundry(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	f, err := h.laundry.Approve(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "laundry form approved", f)
}

// RejectLaundry godoc
// @Summary Reject laundry form
// @Tags Proctor
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param payload body dto.RejectRequest false "Rejection reason"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proctor/laundry/{id}/reject [post]
func (h *ProctorHandler) RejectLaundry(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
			return
		}
	}

	f, err := h.laundry.Reject(c.Request.Context(), c.Param("id"), claims.UserID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "laundry form rejected", f)
}

// AssignRoom godoc
// @Summary Assign student to room
// @Tags Proctor
// @Accept json
// @Produce json
// @Param payload body dto.AssignRoomRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proctor/assignments [post]
func (h *ProctorHandler) AssignRoom(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	result, err := h.assignments.AssignRoom(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "room assigned", result)
}

// CreatePenalty godoc
// @Summary Assign penalty to student
// @Tags Proctor
// @Accept json
// @Produce json
// @Param payload body dto.CreatePenaltyRequest true "Penalty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /proctor/penalties [post]
func (h *ProctorHandler) CreatePenalty(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid penalty payload"))
		return
	}

	p, err := h.penalties.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "penalty assigned", p)
}

// ListPenalties godoc
// @Summary List penalties
// @Tags Proctor
// @Produce json
// @Param student_id query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /proctor/penalties [get]
func (h *ProctorHandler) ListPenalties(c *gin.Context) {
	var (
		items []models.Penalty
		err   error
	)
	if studentID := c.Query("student_id"); studentID != "" {
		items, err = h.penalties.ListByStudent(c.Request.Context(), studentID)
	} else {
		items, err = h.penalties.ListAll(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// ExportPenalties godoc
// @Summary Export penalty ledger as CSV
// @Tags Proctor
// @Produce text/csv
// @Success 200 {file} binary
// @Router /proctor/penalties/export [get]
func (h *ProctorHandler) ExportPenalties(c *gin.Context) {
	items, err := h.penalties.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	rows := make([]export.PenaltyRow, 0, len(items))
	for _, p := range items {
		row := export.PenaltyRow{
			Code:          p.PenaltyCode,
			ViolationType: string(p.ViolationType),
			DurationDays:  p.DurationDays,
			StartDate:     p.StartDate,
			EndDate:       p.EndDate,
			Status:        string(p.Status),
		}
		if p.StudentName != nil {
			row.StudentName = *p.StudentName
		}
		if p.StudentCode != nil {
			row.StudentCode = *p.StudentCode
		}
		rows = append(rows, row)
	}

	out, err := h.ledger.RenderPenalties(rows)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=penalties-%s.csv", time.Now().UTC().Format("20060102")))
	c.Data(http.StatusOK, "text/csv", out)
}
