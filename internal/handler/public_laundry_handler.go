package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/service"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

// PublicLaundryHandler serves the unauthenticated pickup page endpoints. The
// form code in the URL comes from the QR on the printed slip; possession of
// the slip is the credential.
type PublicLaundryHandler struct {
	laundry *service.LaundryService
	metrics *service.MetricsService
}

// NewPublicLaundryHandler creates a new handler.
func NewPublicLaundryHandler(laundry *service.LaundryService, metrics *service.MetricsService) *PublicLaundryHandler {
	return &PublicLaundryHandler{laundry: laundry, metrics: metrics}
}

// Status godoc
// @Summary Public laundry form status
// @Tags Public
// @Produce json
// @Param code path string true "Form code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /public/laundry/{code} [get]
func (h *PublicLaundryHandler) Status(c *gin.Context) {
	info, err := h.laundry.PublicStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// TakeOut godoc
// @Summary Redeem a laundry form from the pickup page
// @Description The QR on the printed slip encodes the GET variant, so a
// @Description phone camera scan redeems directly.
// @Tags Public
// @Produce json
// @Param code path string true "Form code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /public/laundry/{code}/taken [get]
// @Router /public/laundry/{code}/take-out [post]
func (h *PublicLaundryHandler) TakeOut(c *gin.Context) {
	code := c.Param("code")
	receipt, err := h.laundry.PublicTakeOut(c.Request.Context(), code)
	if err != nil {
		h.metrics.RecordRedemption(redemptionOutcome(err))
		// On re-entry the page still needs the form details to render the
		// "already collected" state.
		if appErrors.Matches(err, appErrors.ErrAlreadyTaken) {
			if info, infoErr := h.laundry.PublicStatus(c.Request.Context(), code); infoErr == nil {
				response.ErrorWithData(c, err, info)
				return
			}
		}
		response.Error(c, err)
		return
	}

	h.metrics.RecordRedemption("success")
	response.Message(c, http.StatusOK, "laundry taken out", receipt)
}
