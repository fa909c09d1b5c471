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

type penaltyStore interface {
	Create(ctx context.Context, p *models.Penalty) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Penalty, error)
	ListAll(ctx context.Context) ([]models.Penalty, error)
}

type penaltyStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// PenaltyService records disciplinary penalties. The ledger is append-only;
// end dates are derived, never stored independently of the duration.
type PenaltyService struct {
	repo            penaltyStore
	students        penaltyStudentStore
	codes           *codegen.Generator
	validator       *validator.Validate
	logger          *zap.Logger
	audit           *AuditService
	maxCodeAttempts int
}

// NewPenaltyService constructs the service.
func NewPenaltyService(repo penaltyStore, students penaltyStudentStore, codes *codegen.Generator, validate *validator.Validate, logger *zap.Logger, audit *AuditService, maxCodeAttempts int) *PenaltyService {
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
	return &PenaltyService{repo: repo, students: students, codes: codes, validator: validate, logger: logger, audit: audit, maxCodeAttempts: maxCodeAttempts}
}

// Create assigns a penalty to a student. EndDate is computed as StartDate
// plus DurationDays.
func (s *PenaltyService) Create(ctx context.Context, assignedByUserID string, req dto.CreatePenaltyRequest) (*models.Penalty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid penalty payload")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	p := &models.Penalty{
		ID:            uuid.NewString(),
		StudentID:     req.StudentID,
		ViolationType: models.ViolationType(req.ViolationType),
		Description:   req.Description,
		DurationDays:  req.DurationDays,
		StartDate:     startDate,
		EndDate:       startDate.AddDate(0, 0, req.DurationDays),
		Status:        models.PenaltyActive,
		AssignedBy:    assignedByUserID,
		AssignedDate:  time.Now().UTC(),
	}
	if req.Consequences != "" {
		p.Consequences = &req.Consequences
	}

	for attempt := 0; attempt < s.maxCodeAttempts; attempt++ {
		p.PenaltyCode = s.codes.Generate(codegen.PrefixPenalty)
		err := s.repo.Create(ctx, p)
		if err == nil {
			s.audit.Record(&assignedByUserID, models.AuditActionPenaltyCreate, "penalty", &p.ID, map[string]string{"code": p.PenaltyCode})
			return p, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create penalty")
		}
		s.logger.Warn("penalty code collision, regenerating", zap.String("code", p.PenaltyCode))
	}

	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique penalty code")
}

// ListByStudent returns the student's penalties.
func (s *PenaltyService) ListByStudent(ctx context.Context, studentID string) ([]models.Penalty, error) {
	items, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penalties")
	}
	return items, nil
}

// ListAll returns every penalty for the proctor view.
func (s *PenaltyService) ListAll(ctx context.Context) ([]models.Penalty, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penalties")
	}
	return items, nil
}
