package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/repository"
	"github.com/aau-dhms/dhms-api/pkg/codegen"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type laundryStore interface {
	Create(ctx context.Context, f *models.LaundryForm) error
	FindByID(ctx context.Context, id string) (*models.LaundryForm, error)
	FindByCode(ctx context.Context, formCode string) (*models.LaundryForm, error)
	Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error)
	Reject(ctx context.Context, id string, reason *string) (bool, error)
	Verify(ctx context.Context, id, securityID string, notes *string, at time.Time) (bool, error)
	TakeOut(ctx context.Context, id string) (bool, error)
	TakeOutByCode(ctx context.Context, formCode string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.LaundryForm, error)
	ListPendingProctor(ctx context.Context) ([]models.LaundryForm, error)
	ListPendingVerification(ctx context.Context) ([]models.LaundryForm, error)
}

// LaundryService drives the laundry form workflow from submission to pickup.
// The form code printed on the slip doubles as the QR payload, so redemption
// works both from the authenticated scanner and the public pickup page.
type LaundryService struct {
	repo            laundryStore
	codes           *codegen.Generator
	validator       *validator.Validate
	logger          *zap.Logger
	audit           *AuditService
	maxCodeAttempts int
}

// NewLaundryService constructs the service.
func NewLaundryService(repo laundryStore, codes *codegen.Generator, validate *validator.Validate, logger *zap.Logger, audit *AuditService, maxCodeAttempts int) *LaundryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if codes == nil {
		codes = codegen.New(nil)
	}
	if maxCodeAttempts <= 0 {
		maxCodeAttempts = 5
	}
	return &LaundryService{repo: repo, codes: codes, validator: validate, logger: logger, audit: audit, maxCodeAttempts: maxCodeAttempts}
}

// Submit files a new laundry form for the student.
func (s *LaundryService) Submit(ctx context.Context, studentID, userID string, req dto.CreateLaundryRequest) (*models.LaundryForm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid laundry payload")
	}

	f := &models.LaundryForm{
		ID:             uuid.NewString(),
		StudentID:      studentID,
		ItemCount:      req.ItemCount,
		ItemList:       req.ItemList,
		Status:         models.LaundryPendingProctor,
		SubmissionDate: time.Now().UTC(),
	}
	if req.SpecialInstructions != "" {
		f.SpecialInstructions = &req.SpecialInstructions
	}

	for attempt := 0; attempt < s.maxCodeAttempts; attempt++ {
		f.FormCode = s.codes.Generate(codegen.PrefixLaundry)
		err := s.repo.Create(ctx, f)
		if err == nil {
			s.audit.Record(&userID, models.AuditActionLaundrySubmit, "laundry", &f.ID, map[string]string{"code": f.FormCode})
			return f, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create laundry form")
		}
		s.logger.Warn("laundry code collision, regenerating", zap.String("code", f.FormCode))
	}

	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique form code")
}

// Get loads a single form. Students only see their own.
func (s *LaundryService) Get(ctx context.Context, id string, studentID string) (*models.LaundryForm, error) {
	f, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if studentID != "" && f.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "form belongs to another student")
	}
	return f, nil
}

// Approve moves a pending form to approved_by_proctor.
func (s *LaundryService) Approve(ctx context.Context, id, proctorUserID string) (*models.LaundryForm, error) {
	ok, err := s.repo.Approve(ctx, id, proctorUserID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve laundry form")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "laundry form not found or not pending approval")
	}

	s.audit.Record(&proctorUserID, models.AuditActionLaundryApprove, "laundry", &id, nil)
	return s.find(ctx, id)
}

// Reject moves a pending form to rejected, recording the reason.
func (s *LaundryService) Reject(ctx context.Context, id, proctorUserID, reason string) (*models.LaundryForm, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	ok, err := s.repo.Reject(ctx, id, reasonPtr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject laundry form")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "laundry form not found or not pending approval")
	}

	s.audit.Record(&proctorUserID, models.AuditActionLaundryReject, "laundry", &id, map[string]string{"reason": reason})
	return s.find(ctx, id)
}

// Verify moves an approved form to verified_by_security, unlocking pickup.
func (s *LaundryService) Verify(ctx context.Context, id, securityID, userID string, req dto.VerifyLaundryRequest) (*models.LaundryForm, error) {
	var notes *string
	if req.VerificationNotes != "" {
		notes = &req.VerificationNotes
	}

	ok, err := s.repo.Verify(ctx, id, securityID, notes, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify laundry form")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "laundry form not found or not approved for verification")
	}

	s.audit.Record(&userID, models.AuditActionLaundryVerify, "laundry", &id, nil)
	return s.find(ctx, id)
}

// TakeOut marks a verified form as taken out by row id, the manual path on
// the security desk.
func (s *LaundryService) TakeOut(ctx context.Context, id, userID string) (*models.LaundryForm, error) {
	ok, err := s.repo.TakeOut(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to take out laundry form")
	}
	if !ok {
		f, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		if rerr := redeemableStatus(f.Status); rerr != nil {
			return nil, rerr
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "laundry form changed state, retry")
	}

	s.audit.Record(&userID, models.AuditActionLaundryTakeOut, "laundry", &id, map[string]string{"via": "manual"})
	return s.find(ctx, id)
}

// ScanTakeOut redeems a form from the authenticated security scanner. The QR
// payload is the form code.
func (s *LaundryService) ScanTakeOut(ctx context.Context, code, userID string) (*dto.LaundryReceipt, error) {
	receipt, formID, err := s.redeem(ctx, code)
	if err != nil {
		return nil, err
	}
	s.audit.Record(&userID, models.AuditActionLaundryTakeOut, "laundry", &formID, map[string]string{"code": code, "via": "scanner"})
	return receipt, nil
}

// PublicTakeOut redeems a form from the unauthenticated pickup page.
func (s *LaundryService) PublicTakeOut(ctx context.Context, code string) (*dto.LaundryReceipt, error) {
	receipt, formID, err := s.redeem(ctx, code)
	if err != nil {
		return nil, err
	}
	s.audit.Record(nil, models.AuditActionLaundryTakeOut, "laundry", &formID, map[string]string{"code": code, "via": "public"})
	return receipt, nil
}

// PublicStatus returns the unauthenticated status projection for a form code.
func (s *LaundryService) PublicStatus(ctx context.Context, code string) (*dto.LaundryStatusInfo, error) {
	f, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info := &dto.LaundryStatusInfo{
		FormCode:       f.FormCode,
		ItemCount:      f.ItemCount,
		Status:         string(f.Status),
		StatusDisplay:  f.Status.Label(),
		SubmissionDate: f.SubmissionDate,
		CanTakeOut:     f.Status == models.LaundryVerified,
	}
	if f.StudentName != nil {
		info.StudentName = *f.StudentName
	}
	return info, nil
}

// ListByStudent returns the student's own forms.
func (s *LaundryService) ListByStudent(ctx context.Context, studentID string) ([]models.LaundryForm, error) {
	items, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list laundry forms")
	}
	return items, nil
}

// ListPendingProctor returns forms awaiting proctor review.
func (s *LaundryService) ListPendingProctor(ctx context.Context) ([]models.LaundryForm, error) {
	items, err := s.repo.ListPendingProctor(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending forms")
	}
	return items, nil
}

// ListPendingVerification returns approved forms awaiting security.
func (s *LaundryService) ListPendingVerification(ctx context.Context) ([]models.LaundryForm, error) {
	items, err := s.repo.ListPendingVerification(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list forms for verification")
	}
	return items, nil
}

// redeem performs the conditional take-out by code. The update only fires
// while the form is verified, so duplicate and concurrent redemptions land on
// the re-read below and come back as precise, deterministic errors.
func (s *LaundryService) redeem(ctx context.Context, code string) (*dto.LaundryReceipt, string, error) {
	f, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if err := redeemableStatus(f.Status); err != nil {
		return nil, "", err
	}

	ok, err := s.repo.TakeOutByCode(ctx, code)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to redeem laundry form")
	}
	if !ok {
		// Lost a race between the read above and the update; re-read for the
		// real state.
		f, err = s.findByCode(ctx, code)
		if err != nil {
			return nil, "", err
		}
		if rerr := redeemableStatus(f.Status); rerr != nil {
			return nil, "", rerr
		}
		return nil, "", appErrors.Clone(appErrors.ErrConflict, "laundry form changed state, retry")
	}

	receipt := &dto.LaundryReceipt{
		FormCode:   f.FormCode,
		ItemCount:  f.ItemCount,
		Status:     models.LaundryTakenOut.Label(),
		TakenOutAt: time.Now().UTC(),
	}
	if f.StudentName != nil {
		receipt.StudentName = *f.StudentName
	}
	if f.StudentCode != nil {
		receipt.StudentCode = *f.StudentCode
	}
	return receipt, f.ID, nil
}

func redeemableStatus(status models.LaundryStatus) error {
	switch status {
	case models.LaundryVerified:
		return nil
	case models.LaundryTakenOut:
		return appErrors.Clone(appErrors.ErrAlreadyTaken, "")
	case models.LaundryRejected:
		return appErrors.Clone(appErrors.ErrNotVerified, "laundry form was rejected")
	default:
		return appErrors.Clone(appErrors.ErrNotVerified, fmt.Sprintf("laundry not yet verified, current status: %s", status.Label()))
	}
}

func (s *LaundryService) find(ctx context.Context, id string) (*models.LaundryForm, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "laundry form not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load laundry form")
	}
	return f, nil
}

func (s *LaundryService) findByCode(ctx context.Context, code string) (*models.LaundryForm, error) {
	f, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "laundry form not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load laundry form")
	}
	return f, nil
}

// transitionFailure re-reads after a zero-row conditional update. Wrong-state
// forms report NOT_FOUND just like missing ones so review endpoints cannot be
// used to probe for forms outside the actor's queue. The redemption paths
// keep their finer ALREADY_TAKEN and NOT_VERIFIED taxonomy.
func (s *LaundryService) transitionFailure(ctx context.Context, id, message string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return appErrors.Clone(appErrors.ErrNotFound, message)
}
