package service

import (
	"context"
	"database/sql"
	"errors"
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

type maintenanceStore interface {
	Create(ctx context.Context, m *models.MaintenanceRequest) error
	FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error)
	Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error)
	Reject(ctx context.Context, id string, reason *string) (bool, error)
	Accept(ctx context.Context, id, staffID string, at time.Time) (bool, error)
	Start(ctx context.Context, id, staffID string, at time.Time) (bool, error)
	Complete(ctx context.Context, id, staffID string, at time.Time) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.MaintenanceRequest, error)
	ListPending(ctx context.Context) ([]models.MaintenanceRequest, error)
	ListAvailable(ctx context.Context) ([]models.MaintenanceRequest, error)
	ListAssigned(ctx context.Context, staffID string) ([]models.MaintenanceRequest, error)
}

// MaintenanceService drives the maintenance request workflow. Every
// transition is a conditional update in the store; a zero-row outcome is
// re-read here to hand the caller a precise error.
type MaintenanceService struct {
	repo            maintenanceStore
	codes           *codegen.Generator
	validator       *validator.Validate
	logger          *zap.Logger
	audit           *AuditService
	maxCodeAttempts int
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(repo maintenanceStore, codes *codegen.Generator, validate *validator.Validate, logger *zap.Logger, audit *AuditService, maxCodeAttempts int) *MaintenanceService {
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
	return &MaintenanceService{repo: repo, codes: codes, validator: validate, logger: logger, audit: audit, maxCodeAttempts: maxCodeAttempts}
}

// Submit files a new maintenance request for the student. The request code is
// regenerated on collision up to the configured attempt limit.
func (s *MaintenanceService) Submit(ctx context.Context, studentID, userID string, req dto.CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid maintenance payload")
	}

	urgency := models.Urgency(req.Urgency)
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	m := &models.MaintenanceRequest{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		RoomID:       req.RoomID,
		IssueType:    models.IssueType(req.IssueType),
		Title:        req.Title,
		Description:  req.Description,
		Urgency:      urgency,
		Status:       models.MaintenancePendingProctor,
		ReportedDate: time.Now().UTC(),
	}

	for attempt := 0; attempt < s.maxCodeAttempts; attempt++ {
		m.RequestCode = s.codes.Generate(codegen.PrefixMaintenance)
		err := s.repo.Create(ctx, m)
		if err == nil {
			s.audit.Record(&userID, models.AuditActionMaintenanceSubmit, "maintenance", &m.ID, map[string]string{"code": m.RequestCode})
			return m, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create maintenance request")
		}
		s.logger.Warn("maintenance code collision, regenerating", zap.String("code", m.RequestCode))
	}

	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique request code")
}

// Get loads a single request. Students only see their own.
func (s *MaintenanceService) Get(ctx context.Context, id string, studentID string) (*models.MaintenanceRequest, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if studentID != "" && m.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another student")
	}
	return m, nil
}

// Approve moves a pending request to approved_by_proctor.
func (s *MaintenanceService) Approve(ctx context.Context, id, proctorUserID string) (*models.MaintenanceRequest, error) {
	ok, err := s.repo.Approve(ctx, id, proctorUserID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve maintenance request")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "maintenance request not found or not pending approval")
	}

	s.audit.Record(&proctorUserID, models.AuditActionMaintenanceApprove, "maintenance", &id, nil)
	return s.find(ctx, id)
}

// Reject moves a pending request to rejected, recording the reason.
func (s *MaintenanceService) Reject(ctx context.Context, id, proctorUserID, reason string) (*models.MaintenanceRequest, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	ok, err := s.repo.Reject(ctx, id, reasonPtr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject maintenance request")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "maintenance request not found or not pending approval")
	}

	s.audit.Record(&proctorUserID, models.AuditActionMaintenanceReject, "maintenance", &id, map[string]string{"reason": reason})
	return s.find(ctx, id)
}

// Accept claims an approved job for the acting staff member. Of two
// concurrent accepts exactly one wins; the loser gets a conflict.
func (s *MaintenanceService) Accept(ctx context.Context, id, staffID, userID string) (*models.MaintenanceRequest, error) {
	ok, err := s.repo.Accept(ctx, id, staffID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept maintenance job")
	}
	if !ok {
		return nil, s.transitionFailure(ctx, id, "job not found or not available")
	}

	s.audit.Record(&userID, models.AuditActionMaintenanceAccept, "maintenance", &id, nil)
	return s.find(ctx, id)
}

// Start moves the staff member's accepted job to in_progress.
func (s *MaintenanceService) Start(ctx context.Context, id, staffID, userID string) (*models.MaintenanceRequest, error) {
	ok, err := s.repo.Start(ctx, id, staffID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start maintenance job")
	}
	if !ok {
		return nil, s.assigneeFailure(ctx, id, staffID, "job not found or not in an accepted state")
	}

	s.audit.Record(&userID, models.AuditActionMaintenanceStart, "maintenance", &id, nil)
	return s.find(ctx, id)
}

// Complete moves the staff member's in-progress job to completed.
func (s *MaintenanceService) Complete(ctx context.Context, id, staffID, userID string) (*models.MaintenanceRequest, error) {
	ok, err := s.repo.Complete(ctx, id, staffID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete maintenance job")
	}
	if !ok {
		return nil, s.assigneeFailure(ctx, id, staffID, "job not found or not in progress")
	}

	s.audit.Record(&userID, models.AuditActionMaintenanceComplete, "maintenance", &id, nil)
	return s.find(ctx, id)
}

// ListByStudent returns the student's own requests.
func (s *MaintenanceService) ListByStudent(ctx context.Context, studentID string) ([]models.MaintenanceRequest, error) {
	items, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list maintenance requests")
	}
	return items, nil
}

// ListPending returns requests awaiting proctor review.
func (s *MaintenanceService) ListPending(ctx context.Context) ([]models.MaintenanceRequest, error) {
	items, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return items, nil
}

// ListAvailable returns approved, unclaimed jobs for staff.
func (s *MaintenanceService) ListAvailable(ctx context.Context) ([]models.MaintenanceRequest, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available jobs")
	}
	return items, nil
}

// ListAssigned returns the staff member's open jobs.
func (s *MaintenanceService) ListAssigned(ctx context.Context, staffID string) ([]models.MaintenanceRequest, error) {
	items, err := s.repo.ListAssigned(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned jobs")
	}
	return items, nil
}

func (s *MaintenanceService) find(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load maintenance request")
	}
	return m, nil
}

// transitionFailure re-reads after a zero-row conditional update. A request
// in the wrong state reports NOT_FOUND just like a missing one, so callers
// cannot probe for entities outside their expected view.
func (s *MaintenanceService) transitionFailure(ctx context.Context, id, message string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return appErrors.Clone(appErrors.ErrNotFound, message)
}

func (s *MaintenanceService) assigneeFailure(ctx context.Context, id, staffID, message string) error {
	m, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if m.AssignedTo == nil || *m.AssignedTo != staffID {
		return appErrors.Clone(appErrors.ErrForbidden, "job is assigned to someone else")
	}
	return appErrors.Clone(appErrors.ErrNotFound, message)
}
