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
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type assignmentStore interface {
	CreateActive(ctx context.Context, a *models.RoomAssignment) (occupancy int, roomFull bool, err error)
	FindActiveByStudent(ctx context.Context, studentID string) (*models.RoomAssignment, error)
	ListActiveRoommates(ctx context.Context, roomID, excludeStudentID string) ([]models.Student, error)
	ListResidentsByDorm(ctx context.Context, dormID string) ([]models.DormResident, error)
}

type assignmentProctorStore interface {
	FindProctorByID(ctx context.Context, id string) (*models.Proctor, error)
}

type assignmentRoomStore interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindDorm(ctx context.Context, id string) (*models.Dorm, error)
}

type assignmentStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AssignmentService places students into rooms. The occupancy increment and
// the assignment insert commit in one transaction inside the store, so the
// room can never be oversubscribed no matter how many proctors race.
type AssignmentService struct {
	repo      assignmentStore
	rooms     assignmentRoomStore
	students  assignmentStudentStore
	proctors  assignmentProctorStore
	validator *validator.Validate
	logger    *zap.Logger
	audit     *AuditService
}

// NewAssignmentService constructs the service.
func NewAssignmentService(repo assignmentStore, rooms assignmentRoomStore, students assignmentStudentStore, proctors assignmentProctorStore, validate *validator.Validate, logger *zap.Logger, audit *AuditService) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, rooms: rooms, students: students, proctors: proctors, validator: validate, logger: logger, audit: audit}
}

// AssignRoom creates an active assignment for a student.
func (s *AssignmentService) AssignRoom(ctx context.Context, proctorUserID string, req dto.AssignRoomRequest) (*dto.AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignmentDate, err := time.Parse("2006-01-02", req.AssignmentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignment_date must be YYYY-MM-DD")
	}
	var expectedCheckOut *time.Time
	if req.ExpectedCheckOut != "" {
		t, err := time.Parse("2006-01-02", req.ExpectedCheckOut)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expected_check_out must be YYYY-MM-DD")
		}
		if !t.After(assignmentDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expected_check_out must be after assignment_date")
		}
		expectedCheckOut = &t
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if room.Status == models.RoomMaintenance {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room is under maintenance")
	}

	existing, err := s.repo.FindActiveByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check current assignment")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active room assignment")
	}

	a := &models.RoomAssignment{
		ID:               uuid.NewString(),
		StudentID:        req.StudentID,
		RoomID:           req.RoomID,
		AssignmentDate:   assignmentDate,
		ExpectedCheckOut: expectedCheckOut,
		Status:           models.AssignmentActive,
		AssignedBy:       proctorUserID,
		CreatedAt:        time.Now().UTC(),
	}

	occupancy, roomFull, err := s.repo.CreateActive(ctx, a)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	if roomFull {
		return nil, appErrors.Clone(appErrors.ErrRoomFull, "")
	}

	s.audit.Record(&proctorUserID, models.AuditActionRoomAssign, "assignment", &a.ID, map[string]string{
		"student_id": req.StudentID,
		"room_id":    req.RoomID,
	})

	return &dto.AssignmentResult{
		AssignmentID: a.ID,
		Status:       string(a.Status),
		RoomID:       a.RoomID,
		Occupancy:    occupancy,
	}, nil
}

// DormResidents lists the actively assigned students of the proctor's dorm.
// A proctor without an assigned dorm gets an empty roster.
func (s *AssignmentService) DormResidents(ctx context.Context, proctorID string) ([]models.DormResident, error) {
	proctor, err := s.proctors.FindProctorByID(ctx, proctorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proctor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proctor profile")
	}
	if proctor.AssignedDorm == nil || *proctor.AssignedDorm == "" {
		return []models.DormResident{}, nil
	}

	residents, err := s.repo.ListResidentsByDorm(ctx, *proctor.AssignedDorm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dorm residents")
	}
	return residents, nil
}

// MyRoom returns the student's current room with dorm and roommate details.
func (s *AssignmentService) MyRoom(ctx context.Context, studentID string) (*dto.StudentRoomInfo, error) {
	assignment, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active room assignment")
	}

	room, err := s.rooms.FindByID(ctx, assignment.RoomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	info := &dto.StudentRoomInfo{
		RoomID:     room.ID,
		RoomNumber: room.RoomNumber,
		Floor:      room.Floor,
	}

	if dorm, err := s.rooms.FindDorm(ctx, room.DormID); err == nil {
		info.DormName = dorm.Name
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load dorm for room view", zap.String("dorm_id", room.DormID), zap.Error(err))
	}

	roommates, err := s.repo.ListActiveRoommates(ctx, room.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roommates")
	}
	for _, rm := range roommates {
		info.Roommates = append(info.Roommates, dto.RoommateInfo{
			StudentID:   rm.ID,
			FullName:    rm.FullName,
			StudentCode: rm.StudentCode,
		})
	}

	return info, nil
}
