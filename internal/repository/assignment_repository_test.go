package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/models"
)

func newAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func testAssignment() *models.RoomAssignment {
	now := time.Now()
	checkOut := now.AddDate(1, 0, 0)
	return &models.RoomAssignment{
		ID:               "asg-1",
		StudentID:        "stu-1",
		RoomID:           "room-1",
		AssignmentDate:   now,
		CheckInDate:      &now,
		ExpectedCheckOut: &checkOut,
		Status:           models.AssignmentActive,
		AssignedBy:       "proctor-1",
		CreatedAt:        now,
	}
}

func TestAssignmentRepositoryCreateActive(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)
	a := testAssignment()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND current_occupancy < capacity")).
		WithArgs(a.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"current_occupancy"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_assignments")).
		WithArgs(a.ID, a.StudentID, a.RoomID, a.AssignmentDate, a.CheckInDate,
			a.ExpectedCheckOut, a.Status, a.AssignedBy, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	occupancy, roomFull, err := repo.CreateActive(context.Background(), a)
	require.NoError(t, err)
	require.False(t, roomFull)
	require.Equal(t, 3, occupancy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateActiveRoomFull(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)
	a := testAssignment()

	// The guarded increment returns no row at capacity; the transaction
	// rolls back without touching room_assignments.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND current_occupancy < capacity")).
		WithArgs(a.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"current_occupancy"}))
	mock.ExpectRollback()

	occupancy, roomFull, err := repo.CreateActive(context.Background(), a)
	require.NoError(t, err)
	require.True(t, roomFull)
	require.Equal(t, 0, occupancy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindActiveByStudentMissing(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 AND status = 'active'")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := repo.FindActiveByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Nil(t, a)
	require.NoError(t, mock.ExpectationsWereMet())
}
