package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// SecurityHandler serves the gate security endpoints: laundry verification
// and QR redemption from the scanner.
type SecurityHandler struct {
	dashboard *service.DashboardService
	laundry   *service.LaundryService
	metrics   *service.MetricsService
}

// NewSecurityHandler creates a new handler.
func NewSecurityHandler(dashboard *service.DashboardService, laundry *service.LaundryService, metrics *service.MetricsService) *SecurityHandler {
	return &SecurityHandler{dashboard: dashboard, laundry: laundry, metrics: metrics}
}

func (h *SecurityHandler) profile(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	if claims.ProfileID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no security profile linked to this account"))
		return nil, false
	}
	return claims, true
}

// Dashboard godoc
// @Summary Security dashboard
// @Tags Security
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /security/dashboard [get]
func (h *SecurityHandler) Dashboard(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	board, err := h.dashboard.Security(c.Request.Context(), claims.ProfileID, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}

// PendingVerification godoc
// @Summary List approved forms awaiting verification
// @Tags Security
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /security/laundry/pending [get]
func (h *SecurityHandler) PendingVerification(c *gin.Context) {
	items, err := h.laundry.ListPendingVerification(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// VerifyLaundry godoc
// @Summary Verify an approved laundry form
// @Tags Security
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param payload body dto.VerifyLaundryRequest false "Verification notes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /security/laundry/{id}/verify [post]
func (h *SecurityHandler) VerifyLaundry(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	var req dto.VerifyLaundryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verification payload"))
			return
		}
	}

	f, err := h.laundry.Verify(c.Request.Context(), c.Param("id"), claims.ProfileID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "laundry form verified", f)
}

// TakeOut godoc
// @Summary Mark a verified laundry form as taken out
// @Tags Security
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /security/laundry/{id}/take-out [post]
func (h *SecurityHandler) TakeOut(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	f, err := h.laundry.TakeOut(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.metrics.RecordRedemption(redemptionOutcome(err))
		response.Error(c, err)
		return
	}

	h.metrics.RecordRedemption("success")
	response.Message(c, http.StatusOK, "laundry taken out", f)
}

// ScanQR godoc
// @Summary Redeem a laundry form from the scanner
// @Description The QR payload is the form code printed on the slip
// @Tags Security
// @Accept json
// @Produce json
// @Param payload body dto.QRScanRequest true "Scan payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /security/laundry/scan [post]
func (h *SecurityHandler) ScanQR(c *gin.Context) {
	claims, ok := h.profile(c)
	if !ok {
		return
	}

	var req dto.QRScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}

	receipt, err := h.laundry.ScanTakeOut(c.Request.Context(), req.QRCode, claims.UserID)
	if err != nil {
		h.metrics.RecordRedemption(redemptionOutcome(err))
		response.Error(c, err)
		return
	}

	h.metrics.RecordRedemption("success")
	response.Message(c, http.StatusOK, "laundry taken out", receipt)
}

func redemptionOutcome(err error) string {
	switch {
	case appErrors.Matches(err, appErrors.ErrAlreadyTaken):
		return "already_taken"
	case appErrors.Matches(err, appErrors.ErrNotVerified):
		return "not_verified"
	case appErrors.Matches(err, appErrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
