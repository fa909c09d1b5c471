package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/models"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type dashMaintenanceStub struct {
	counts map[string]int
	calls  int
}

func (s *dashMaintenanceStub) CountByStatus(ctx context.Context, statuses []models.MaintenanceStatus, staffID, studentID string) (int, error) {
	s.calls++
	key := string(statuses[0])
	if staffID != "" {
		key += ":" + staffID
	}
	return s.counts[key], nil
}

type dashLaundryStub struct {
	pending  int
	verified int
	takenOut int
}

func (s *dashLaundryStub) CountByStatus(ctx context.Context, status models.LaundryStatus, studentID string) (int, error) {
	return s.pending, nil
}

func (s *dashLaundryStub) CountVerifiedSince(ctx context.Context, status models.LaundryStatus, cutoff time.Time) (int, error) {
	if status == models.LaundryTakenOut {
		return s.takenOut, nil
	}
	return s.verified, nil
}

type dashPenaltyStub struct {
	active int
}

func (s *dashPenaltyStub) CountActive(ctx context.Context, studentID string) (int, error) {
	return s.active, nil
}

type dashStudentStub struct {
	students map[string]*models.Student
}

func (s *dashStudentStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := s.students[id]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

// memoryCache is a map-backed stand-in for the Redis cache repository.
type memoryCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func newDashboardFixture(cache dashboardCache) (*DashboardService, *dashMaintenanceStub) {
	maintenance := &dashMaintenanceStub{counts: map[string]int{
		"pending_proctor":           4,
		"approved_by_proctor":       2,
		"assigned_to_staff:staff-1": 1,
		"in_progress:staff-1":       1,
		"completed:staff-1":         7,
	}}
	laundry := &dashLaundryStub{pending: 3, verified: 5, takenOut: 2}
	penalties := &dashPenaltyStub{active: 1}
	students := &dashStudentStub{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", StudentCode: "AAU-1001", FullName: "Abebe Bikila"},
	}}

	assignStore := &assignmentStoreStub{}
	rooms := &assignmentRoomStoreStub{rooms: map[string]*models.Room{}, dorms: map[string]*models.Dorm{}}
	assignments := NewAssignmentService(assignStore, rooms, students, nil, nil, nil, nil)

	svc := NewDashboardService(maintenance, laundry, penalties, students, assignments, cache, nil, DashboardConfig{
		CacheEnabled: cache != nil,
		CacheTTL:     30 * time.Second,
	})
	return svc, maintenance
}

func TestDashboardServiceStudentWithoutRoom(t *testing.T) {
	svc, _ := newDashboardFixture(nil)

	board, err := svc.Student(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "AAU-1001", board.StudentCode)
	assert.Nil(t, board.Room)
	assert.Equal(t, 1, board.ActivePenalties)
	assert.Equal(t, 4, board.PendingMaintenance)
	assert.Equal(t, 3, board.PendingLaundry)
}

func TestDashboardServiceStudentUnknownProfile(t *testing.T) {
	svc, _ := newDashboardFixture(nil)

	_, err := svc.Student(context.Background(), "stu-missing")
	require.Error(t, err)
	assert.True(t, appErrors.Matches(err, appErrors.ErrNotFound))
}

func TestDashboardServiceStaffCounters(t *testing.T) {
	svc, _ := newDashboardFixture(nil)

	board, err := svc.Staff(context.Background(), "staff-1", "Mulu Gebre")
	require.NoError(t, err)
	assert.Equal(t, 2, board.AvailableJobs)
	assert.Equal(t, 1, board.PendingJobs)
	assert.Equal(t, 1, board.InProgressJobs)
	assert.Equal(t, 7, board.CompletedJobs)
}

func TestDashboardServiceSecurityCounters(t *testing.T) {
	svc, _ := newDashboardFixture(nil)

	board, err := svc.Security(context.Background(), "sec-1", "Lemma Tadesse")
	require.NoError(t, err)
	assert.Equal(t, 3, board.PendingVerification)
	assert.Equal(t, 5, board.VerifiedToday)
	assert.Equal(t, 2, board.TakenOutToday)
}

func TestDashboardServiceProctorUsesCache(t *testing.T) {
	cache := newMemoryCache()
	svc, maintenance := newDashboardFixture(cache)

	first, err := svc.Proctor(context.Background(), "proc-1", "Kebede Alemu")
	require.NoError(t, err)
	assert.Equal(t, 4, first.PendingMaintenance)
	assert.Equal(t, 1, cache.sets)
	callsAfterMiss := maintenance.calls

	second, err := svc.Proctor(context.Background(), "proc-1", "Kebede Alemu")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	// Cache hit short-circuits the counter queries.
	assert.Equal(t, callsAfterMiss, maintenance.calls)
}
