package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type maintenanceStoreStub struct {
	requests    map[string]*models.MaintenanceRequest
	created     []models.MaintenanceRequest
	approveOK   bool
	acceptOK    bool
	startOK     bool
	completeOK  bool
	acceptCalls int
}

func newMaintenanceStoreStub() *maintenanceStoreStub {
	return &maintenanceStoreStub{requests: map[string]*models.MaintenanceRequest{}}
}

func (s *maintenanceStoreStub) add(m *models.MaintenanceRequest) {
	s.requests[m.ID] = m
}

func (s *maintenanceStoreStub) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	s.created = append(s.created, *m)
	return nil
}

func (s *maintenanceStoreStub) FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	if m, ok := s.requests[id]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (s *maintenanceStoreStub) Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error) {
	return s.approveOK, nil
}

func (s *maintenanceStoreStub) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	return s.approveOK, nil
}

func (s *maintenanceStoreStub) Accept(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	s.acceptCalls++
	return s.acceptOK, nil
}

func (s *maintenanceStoreStub) Start(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	return s.startOK, nil
}

func (s *maintenanceStoreStub) Complete(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	return s.completeOK, nil
}

func (s *maintenanceStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.MaintenanceRequest, error) {
	return nil, nil
}

func (s *maintenanceStoreStub) ListPending(ctx context.Context) ([]models.MaintenanceRequest, error) {
	return nil, nil
}

func (s *maintenanceStoreStub) ListAvailable(ctx context.Context) ([]models.MaintenanceRequest, error) {
	return nil, nil
}

func (s *maintenanceStoreStub) ListAssigned(ctx context.Context, staffID string) ([]models.MaintenanceRequest, error) {
	return nil, nil
}

func pendingRequest(id string, status models.MaintenanceStatus) *models.MaintenanceRequest {
	return &models.MaintenanceRequest{
		ID:           id,
		RequestCode:  "MNT-2026-A1B2C3",
		StudentID:    "stu-1",
		RoomID:       "room-1",
		IssueType:    models.IssuePlumbing,
		Title:        "Leaking sink",
		Description:  "Water pooling under the basin",
		Urgency:      models.UrgencyMedium,
		Status:       status,
		ReportedDate: time.Now(),
	}
}

func TestMaintenanceServiceSubmitDefaultsUrgency(t *testing.T) {
	store := newMaintenanceStoreStub()
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	m, err := svc.Submit(context.Background(), "stu-1", "user-1", dto.CreateMaintenanceRequest{
		RoomID:      "room-1",
		IssueType:   "plumbing",
		Title:       "Leaking sink",
		Description: "Water pooling under the basin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyMedium, m.Urgency)
	assert.Equal(t, models.MaintenancePendingProctor, m.Status)
	assert.Regexp(t, `^MNT-\d{4}-[0-9A-F]{6}$`, m.RequestCode)
	require.Len(t, store.created, 1)
}

func TestMaintenanceServiceSubmitRejectsUnknownIssueType(t *testing.T) {
	store := newMaintenanceStoreStub()
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Submit(context.Background(), "stu-1", "user-1", dto.CreateMaintenanceRequest{
		RoomID:      "room-1",
		IssueType:   "roofing",
		Title:       "Bad roof",
		Description: "Leaks when it rains",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrValidation))
}

func TestMaintenanceServiceApproveWrongState(t *testing.T) {
	// Zero rows from the guarded update on an existing request means the
	// request already left pending_proctor. Wrong state reads the same as
	// missing so approval cannot be used to probe for requests.
	store := newMaintenanceStoreStub()
	store.add(pendingRequest("req-1", models.MaintenanceApproved))
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Approve(context.Background(), "req-1", "user-proctor")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestMaintenanceServiceAcceptAfterReject(t *testing.T) {
	store := newMaintenanceStoreStub()
	store.add(pendingRequest("req-1", models.MaintenanceRejected))
	store.acceptOK = false
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Accept(context.Background(), "req-1", "staff-1", "user-staff")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestMaintenanceServiceApproveMissing(t *testing.T) {
	store := newMaintenanceStoreStub()
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Approve(context.Background(), "req-missing", "user-proctor")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestMaintenanceServiceAcceptWinner(t *testing.T) {
	store := newMaintenanceStoreStub()
	staffID := "staff-1"
	m := pendingRequest("req-1", models.MaintenanceAssignedToStaff)
	m.AssignedTo = &staffID
	store.add(m)
	store.acceptOK = true
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	got, err := svc.Accept(context.Background(), "req-1", staffID, "user-staff")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceAssignedToStaff, got.Status)
	assert.Equal(t, 1, store.acceptCalls)
}

func TestMaintenanceServiceAcceptLoser(t *testing.T) {
	// The job exists but another staff member claimed it first.
	store := newMaintenanceStoreStub()
	other := "staff-2"
	m := pendingRequest("req-1", models.MaintenanceAssignedToStaff)
	m.AssignedTo = &other
	store.add(m)
	store.acceptOK = false
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Accept(context.Background(), "req-1", "staff-1", "user-staff")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestMaintenanceServiceStartWrongAssignee(t *testing.T) {
	store := newMaintenanceStoreStub()
	other := "staff-2"
	m := pendingRequest("req-1", models.MaintenanceAssignedToStaff)
	m.AssignedTo = &other
	store.add(m)
	store.startOK = false
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Start(context.Background(), "req-1", "staff-1", "user-staff")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrForbidden))
}

func TestMaintenanceServiceCompleteNotInProgress(t *testing.T) {
	store := newMaintenanceStoreStub()
	staffID := "staff-1"
	m := pendingRequest("req-1", models.MaintenanceAssignedToStaff)
	m.AssignedTo = &staffID
	store.add(m)
	store.completeOK = false
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Complete(context.Background(), "req-1", staffID, "user-staff")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestMaintenanceServiceGetEnforcesOwnership(t *testing.T) {
	store := newMaintenanceStoreStub()
	store.add(pendingRequest("req-1", models.MaintenancePendingProctor))
	svc := NewMaintenanceService(store, nil, nil, nil, nil, 5)

	_, err := svc.Get(context.Background(), "req-1", "stu-2")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrForbidden))

	m, err := svc.Get(context.Background(), "req-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", m.ID)
}
