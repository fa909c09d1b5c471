package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type laundryStoreStub struct {
	forms        map[string]*models.LaundryForm
	byCode       map[string]*models.LaundryForm
	createErrs   []error
	created      []models.LaundryForm
	takeOutOK    bool
	takeOutCalls int
	approveOK    bool
}

func newLaundryStoreStub() *laundryStoreStub {
	return &laundryStoreStub{
		forms:  map[string]*models.LaundryForm{},
		byCode: map[string]*models.LaundryForm{},
	}
}

func (s *laundryStoreStub) add(f *models.LaundryForm) {
	s.forms[f.ID] = f
	s.byCode[f.FormCode] = f
}

func (s *laundryStoreStub) Create(ctx context.Context, f *models.LaundryForm) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	s.created = append(s.created, *f)
	return nil
}

func (s *laundryStoreStub) FindByID(ctx context.Context, id string) (*models.LaundryForm, error) {
	if f, ok := s.forms[id]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func (s *laundryStoreStub) FindByCode(ctx context.Context, code string) (*models.LaundryForm, error) {
	if f, ok := s.byCode[code]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func (s *laundryStoreStub) Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error) {
	return s.approveOK, nil
}

func (s *laundryStoreStub) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	return s.approveOK, nil
}

func (s *laundryStoreStub) Verify(ctx context.Context, id, securityID string, notes *string, at time.Time) (bool, error) {
	return s.approveOK, nil
}

func (s *laundryStoreStub) TakeOutByCode(ctx context.Context, code string) (bool, error) {
	s.takeOutCalls++
	if s.takeOutOK {
		if f, ok := s.byCode[code]; ok {
			f.Status = models.LaundryTakenOut
		}
	}
	return s.takeOutOK, nil
}

func (s *laundryStoreStub) TakeOut(ctx context.Context, id string) (bool, error) {
	s.takeOutCalls++
	if s.takeOutOK {
		if f, ok := s.forms[id]; ok {
			f.Status = models.LaundryTakenOut
		}
	}
	return s.takeOutOK, nil
}

func (s *laundryStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.LaundryForm, error) {
	return nil, nil
}

func (s *laundryStoreStub) ListPendingProctor(ctx context.Context) ([]models.LaundryForm, error) {
	return nil, nil
}

func (s *laundryStoreStub) ListPendingVerification(ctx context.Context) ([]models.LaundryForm, error) {
	return nil, nil
}

func verifiedForm(code string) *models.LaundryForm {
	name := "Abebe Bikila"
	studentCode := "AAU-1001"
	return &models.LaundryForm{
		ID:             "form-1",
		FormCode:       code,
		StudentID:      "stu-1",
		ItemCount:      4,
		ItemList:       "2 shirts, 2 trousers",
		Status:         models.LaundryVerified,
		SubmissionDate: time.Now(),
		StudentName:    &name,
		StudentCode:    &studentCode,
	}
}

func TestLaundryServiceSubmitRetriesCodeCollision(t *testing.T) {
	store := newLaundryStoreStub()
	store.createErrs = []error{&pq.Error{Code: "23505"}, nil}
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	f, err := svc.Submit(context.Background(), "stu-1", "user-1", dto.CreateLaundryRequest{
		ItemCount: 4,
		ItemList:  "2 shirts, 2 trousers",
	})
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.LaundryPendingProctor, f.Status)
	assert.Regexp(t, `^LAU-\d{4}-[0-9A-F]{6}$`, f.FormCode)
}

func TestLaundryServiceSubmitGivesUpAfterMaxAttempts(t *testing.T) {
	store := newLaundryStoreStub()
	store.createErrs = []error{
		&pq.Error{Code: "23505"},
		&pq.Error{Code: "23505"},
		&pq.Error{Code: "23505"},
	}
	svc := NewLaundryService(store, nil, nil, nil, nil, 3)

	_, err := svc.Submit(context.Background(), "stu-1", "user-1", dto.CreateLaundryRequest{
		ItemCount: 1,
		ItemList:  "1 blanket",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrConflict))
	assert.Empty(t, store.created)
}

func TestLaundryServiceSubmitRejectsInvalidPayload(t *testing.T) {
	store := newLaundryStoreStub()
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.Submit(context.Background(), "stu-1", "user-1", dto.CreateLaundryRequest{ItemCount: 0})
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrValidation))
}

func TestLaundryServiceApproveWrongState(t *testing.T) {
	// A form that already left pending_proctor reads the same as a missing
	// one on the review endpoints.
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.Approve(context.Background(), "form-1", "user-proctor")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestLaundryServiceScanTakeOut(t *testing.T) {
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	store.takeOutOK = true
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	receipt, err := svc.ScanTakeOut(context.Background(), "LAU-2026-A1B2C3", "user-sec")
	require.NoError(t, err)
	assert.Equal(t, "LAU-2026-A1B2C3", receipt.FormCode)
	assert.Equal(t, "Abebe Bikila", receipt.StudentName)
	assert.Equal(t, "AAU-1001", receipt.StudentCode)
	assert.Equal(t, 1, store.takeOutCalls)
}

func TestLaundryServiceManualTakeOut(t *testing.T) {
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	store.takeOutOK = true
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	f, err := svc.TakeOut(context.Background(), "form-1", "user-sec")
	require.NoError(t, err)
	assert.Equal(t, models.LaundryTakenOut, f.Status)
	assert.Equal(t, 1, store.takeOutCalls)
}

func TestLaundryServiceManualTakeOutAlreadyTaken(t *testing.T) {
	store := newLaundryStoreStub()
	f := verifiedForm("LAU-2026-A1B2C3")
	f.Status = models.LaundryTakenOut
	store.add(f)
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.TakeOut(context.Background(), "form-1", "user-sec")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrAlreadyTaken))
}

func TestLaundryServiceTakeOutAlreadyTaken(t *testing.T) {
	store := newLaundryStoreStub()
	f := verifiedForm("LAU-2026-A1B2C3")
	f.Status = models.LaundryTakenOut
	store.add(f)
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.PublicTakeOut(context.Background(), "LAU-2026-A1B2C3")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrAlreadyTaken))
	// Rejected before touching the guarded update.
	assert.Equal(t, 0, store.takeOutCalls)
}

func TestLaundryServiceTakeOutNotVerified(t *testing.T) {
	store := newLaundryStoreStub()
	f := verifiedForm("LAU-2026-A1B2C3")
	f.Status = models.LaundryPendingProctor
	store.add(f)
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.PublicTakeOut(context.Background(), "LAU-2026-A1B2C3")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotVerified))
	assert.Contains(t, appErrors.FromError(err).Message, "Pending Proctor Approval")
}

func TestLaundryServiceTakeOutUnknownCode(t *testing.T) {
	store := newLaundryStoreStub()
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.PublicTakeOut(context.Background(), "LAU-2026-FFFFFF")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestLaundryServiceTakeOutLostRace(t *testing.T) {
	// The first read sees verified but the guarded update affects zero
	// rows; the re-read shows the concurrent winner already took it out.
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	store.takeOutOK = false
	loser := &raceLaundryStore{laundryStoreStub: store, after: models.LaundryTakenOut}
	svc := NewLaundryService(loser, nil, nil, nil, nil, 5)

	_, err := svc.PublicTakeOut(context.Background(), "LAU-2026-A1B2C3")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrAlreadyTaken))
	assert.Equal(t, 1, store.takeOutCalls)
}

// raceLaundryStore reports the form as verified on the first read and as
// `after` once the guarded update has failed.
type raceLaundryStore struct {
	*laundryStoreStub
	after models.LaundryStatus
	reads int
}

func (s *raceLaundryStore) FindByCode(ctx context.Context, code string) (*models.LaundryForm, error) {
	f, err := s.laundryStoreStub.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.reads++
	copied := *f
	if s.reads > 1 {
		copied.Status = s.after
	} else {
		copied.Status = models.LaundryVerified
	}
	return &copied, nil
}

func TestLaundryServicePublicStatus(t *testing.T) {
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	info, err := svc.PublicStatus(context.Background(), "LAU-2026-A1B2C3")
	require.NoError(t, err)
	assert.True(t, info.CanTakeOut)
	assert.Equal(t, "Verified by Security", info.StatusDisplay)

	f := store.byCode["LAU-2026-A1B2C3"]
	f.Status = models.LaundryTakenOut
	info, err = svc.PublicStatus(context.Background(), "LAU-2026-A1B2C3")
	require.NoError(t, err)
	assert.False(t, info.CanTakeOut)
}

func TestLaundryServiceGetEnforcesOwnership(t *testing.T) {
	store := newLaundryStoreStub()
	store.add(verifiedForm("LAU-2026-A1B2C3"))
	svc := NewLaundryService(store, nil, nil, nil, nil, 5)

	_, err := svc.Get(context.Background(), "form-1", "stu-2")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrForbidden))

	f, err := svc.Get(context.Background(), "form-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "form-1", f.ID)
}
