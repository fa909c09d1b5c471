package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	"github.com/aau-dhms/dhms-api/pkg/response"
)

type laundryFormStub struct {
	byCode    map[string]*models.LaundryForm
	takeOutOK bool
}

func (s *laundryFormStub) Create(ctx context.Context, f *models.LaundryForm) error { return nil }

func (s *laundryFormStub) FindByID(ctx context.Context, id string) (*models.LaundryForm, error) {
	for _, f := range s.byCode {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *laundryFormStub) FindByCode(ctx context.Context, code string) (*models.LaundryForm, error) {
	if f, ok := s.byCode[code]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func (s *laundryFormStub) Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error) {
	return false, nil
}

func (s *laundryFormStub) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	return false, nil
}

func (s *laundryFormStub) Verify(ctx context.Context, id, securityID string, notes *string, at time.Time) (bool, error) {
	return false, nil
}

func (s *laundryFormStub) TakeOutByCode(ctx context.Context, code string) (bool, error) {
	if s.takeOutOK {
		if f, ok := s.byCode[code]; ok {
			f.Status = models.LaundryTakenOut
		}
	}
	return s.takeOutOK, nil
}

func (s *laundryFormStub) TakeOut(ctx context.Context, id string) (bool, error) {
	if s.takeOutOK {
		for _, f := range s.byCode {
			if f.ID == id {
				f.Status = models.LaundryTakenOut
			}
		}
	}
	return s.takeOutOK, nil
}

func (s *laundryFormStub) ListByStudent(ctx context.Context, studentID string) ([]models.LaundryForm, error) {
	return nil, nil
}

func (s *laundryFormStub) ListPendingProctor(ctx context.Context) ([]models.LaundryForm, error) {
	return nil, nil
}

func (s *laundryFormStub) ListPendingVerification(ctx context.Context) ([]models.LaundryForm, error) {
	return nil, nil
}

func buildPublicLaundryRouter(stub *laundryFormStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	laundry := service.NewLaundryService(stub, nil, nil, nil, nil, 5)
	h := NewPublicLaundryHandler(laundry, nil)

	router := gin.New()
	router.GET("/public/laundry/:code", h.Status)
	router.GET("/public/laundry/:code/taken", h.TakeOut)
	router.POST("/public/laundry/:code/take-out", h.TakeOut)
	return router
}

func publicLaundryForm(status models.LaundryStatus) *laundryFormStub {
	name := "Abebe Bikila"
	studentCode := "AAU-1001"
	return &laundryFormStub{byCode: map[string]*models.LaundryForm{
		"LAU-2026-A1B2C3": {
			ID:             "form-1",
			FormCode:       "LAU-2026-A1B2C3",
			StudentID:      "stu-1",
			ItemCount:      4,
			ItemList:       "2 shirts, 2 trousers",
			Status:         status,
			SubmissionDate: time.Now(),
			StudentName:    &name,
			StudentCode:    &studentCode,
		},
	}}
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope
}

func TestPublicLaundryStatus(t *testing.T) {
	router := buildPublicLaundryRouter(publicLaundryForm(models.LaundryVerified))

	req, _ := http.NewRequest(http.MethodGet, "/public/laundry/LAU-2026-A1B2C3", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	require.Contains(t, resp.Body.String(), `"can_take_out":true`)
	require.Contains(t, resp.Body.String(), `"Verified by Security"`)
}

func TestPublicLaundryStatusUnknownCode(t *testing.T) {
	router := buildPublicLaundryRouter(publicLaundryForm(models.LaundryVerified))

	req, _ := http.NewRequest(http.MethodGet, "/public/laundry/LAU-2026-FFFFFF", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.False(t, envelope.Success)
	require.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestPublicLaundryTakeOut(t *testing.T) {
	stub := publicLaundryForm(models.LaundryVerified)
	stub.takeOutOK = true
	router := buildPublicLaundryRouter(stub)

	req, _ := http.NewRequest(http.MethodPost, "/public/laundry/LAU-2026-A1B2C3/take-out", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	require.Contains(t, resp.Body.String(), `"form_code":"LAU-2026-A1B2C3"`)
}

func TestPublicLaundryRedeemByQRScan(t *testing.T) {
	// The slip QR encodes the GET endpoint, so opening it from a phone
	// camera redeems the form; a second scan reports it already taken.
	stub := publicLaundryForm(models.LaundryVerified)
	stub.takeOutOK = true
	router := buildPublicLaundryRouter(stub)

	first := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/public/laundry/LAU-2026-A1B2C3/taken", nil)
	router.ServeHTTP(first, req)

	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), `"form_code":"LAU-2026-A1B2C3"`)

	second := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/public/laundry/LAU-2026-A1B2C3/taken", nil)
	router.ServeHTTP(second, req)

	require.Equal(t, http.StatusBadRequest, second.Code)
	require.Equal(t, "ALREADY_TAKEN", decodeEnvelope(t, second).Code)
}

func TestPublicLaundryTakeOutTwice(t *testing.T) {
	stub := publicLaundryForm(models.LaundryVerified)
	stub.takeOutOK = true
	router := buildPublicLaundryRouter(stub)

	first := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/public/laundry/LAU-2026-A1B2C3/take-out", nil)
	router.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	// The second attempt fails but still carries the form details so the
	// pickup page can render the collected state.
	second := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/public/laundry/LAU-2026-A1B2C3/take-out", nil)
	router.ServeHTTP(second, req)

	require.Equal(t, http.StatusBadRequest, second.Code)
	envelope := decodeEnvelope(t, second)
	require.False(t, envelope.Success)
	require.Equal(t, "ALREADY_TAKEN", envelope.Code)
	require.NotNil(t, envelope.Data)
}

func TestPublicLaundryTakeOutNotVerified(t *testing.T) {
	router := buildPublicLaundryRouter(publicLaundryForm(models.LaundryPendingProctor))

	req, _ := http.NewRequest(http.MethodPost, "/public/laundry/LAU-2026-A1B2C3/take-out", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.Equal(t, "NOT_VERIFIED", envelope.Code)
}
