package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aau-dhms/dhms-api/internal/dto"
	"github.com/aau-dhms/dhms-api/internal/models"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type dashboardMaintenanceStore interface {
	CountByStatus(ctx context.Context, statuses []models.MaintenanceStatus, staffID, studentID string) (int, error)
}

type dashboardLaundryStore interface {
	CountByStatus(ctx context.Context, status models.LaundryStatus, studentID string) (int, error)
	CountVerifiedSince(ctx context.Context, status models.LaundryStatus, cutoff time.Time) (int, error)
}

type dashboardPenaltyStore interface {
	CountActive(ctx context.Context, studentID string) (int, error)
}

type dashboardStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardConfig controls dashboard payload caching.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DashboardService aggregates per-role landing page counters. Payloads are
// cached briefly in Redis; counters tolerate a few seconds of staleness.
type DashboardService struct {
	maintenance dashboardMaintenanceStore
	laundry     dashboardLaundryStore
	penalties   dashboardPenaltyStore
	students    dashboardStudentStore
	assignments *AssignmentService
	cache       dashboardCache
	logger      *zap.Logger
	config      DashboardConfig
}

// NewDashboardService constructs the service. Cache may be nil.
func NewDashboardService(maintenance dashboardMaintenanceStore, laundry dashboardLaundryStore, penalties dashboardPenaltyStore, students dashboardStudentStore, assignments *AssignmentService, cache dashboardCache, logger *zap.Logger, config DashboardConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		maintenance: maintenance,
		laundry:     laundry,
		penalties:   penalties,
		students:    students,
		assignments: assignments,
		cache:       cache,
		logger:      logger,
		config:      config,
	}
}

var openMaintenanceStatuses = []models.MaintenanceStatus{
	models.MaintenancePendingProctor,
	models.MaintenanceApproved,
	models.MaintenanceAssignedToStaff,
	models.MaintenanceInProgress,
}

// Student builds the student landing page.
func (s *DashboardService) Student(ctx context.Context, studentID string) (*dto.StudentDashboard, error) {
	key := fmt.Sprintf("dashboard:student:%s", studentID)
	var cached dto.StudentDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	board := &dto.StudentDashboard{
		StudentID:   student.ID,
		StudentCode: student.StudentCode,
		FullName:    student.FullName,
	}

	room, err := s.assignments.MyRoom(ctx, studentID)
	if err == nil {
		board.Room = room
	} else if !appErrors.Matches(err, appErrors.ErrNotFound) {
		return nil, err
	}

	if board.ActivePenalties, err = s.penalties.CountActive(ctx, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count penalties")
	}
	if board.PendingMaintenance, err = s.maintenance.CountByStatus(ctx, openMaintenanceStatuses, "", studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count maintenance requests")
	}
	if board.PendingLaundry, err = s.laundry.CountByStatus(ctx, models.LaundryPendingProctor, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count laundry forms")
	}

	s.cacheSet(ctx, key, board)
	return board, nil
}

// Proctor builds the proctor landing page.
func (s *DashboardService) Proctor(ctx context.Context, proctorID, fullName string) (*dto.ProctorDashboard, error) {
	key := fmt.Sprintf("dashboard:proctor:%s", proctorID)
	var cached dto.ProctorDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	board := &dto.ProctorDashboard{ProctorID: proctorID, FullName: fullName}

	var err error
	if board.PendingMaintenance, err = s.maintenance.CountByStatus(ctx, []models.MaintenanceStatus{models.MaintenancePendingProctor}, "", ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count maintenance requests")
	}
	if board.PendingLaundry, err = s.laundry.CountByStatus(ctx, models.LaundryPendingProctor, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count laundry forms")
	}
	if board.ActivePenalties, err = s.penalties.CountActive(ctx, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count penalties")
	}

	s.cacheSet(ctx, key, board)
	return board, nil
}

// Staff builds the maintenance staff landing page.
func (s *DashboardService) Staff(ctx context.Context, staffID, fullName string) (*dto.StaffDashboard, error) {
	key := fmt.Sprintf("dashboard:staff:%s", staffID)
	var cached dto.StaffDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	board := &dto.StaffDashboard{StaffID: staffID, FullName: fullName}

	var err error
	if board.AvailableJobs, err = s.maintenance.CountByStatus(ctx, []models.MaintenanceStatus{models.MaintenanceApproved}, "", ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count available jobs")
	}
	if board.PendingJobs, err = s.maintenance.CountByStatus(ctx, []models.MaintenanceStatus{models.MaintenanceAssignedToStaff}, staffID, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending jobs")
	}
	if board.InProgressJobs, err = s.maintenance.CountByStatus(ctx, []models.MaintenanceStatus{models.MaintenanceInProgress}, staffID, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count in-progress jobs")
	}
	if board.CompletedJobs, err = s.maintenance.CountByStatus(ctx, []models.MaintenanceStatus{models.MaintenanceCompleted}, staffID, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed jobs")
	}

	s.cacheSet(ctx, key, board)
	return board, nil
}

// Security builds the gate security landing page.
func (s *DashboardService) Security(ctx context.Context, securityID, fullName string) (*dto.SecurityDashboard, error) {
	key := fmt.Sprintf("dashboard:security:%s", securityID)
	var cached dto.SecurityDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	board := &dto.SecurityDashboard{SecurityID: securityID, FullName: fullName}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	var err error
	if board.PendingVerification, err = s.laundry.CountByStatus(ctx, models.LaundryApproved, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count forms for verification")
	}
	if board.VerifiedToday, err = s.laundry.CountVerifiedSince(ctx, models.LaundryVerified, startOfDay); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count verified forms")
	}
	if board.TakenOutToday, err = s.laundry.CountVerifiedSince(ctx, models.LaundryTakenOut, startOfDay); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count taken out forms")
	}

	s.cacheSet(ctx, key, board)
	return board, nil
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if !s.config.CacheEnabled || s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !appErrors.Matches(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if !s.config.CacheEnabled || s.cache == nil {
		return
	}
	ttl := s.config.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
