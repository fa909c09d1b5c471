package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/models"
)

func newMaintenanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMaintenanceRepositoryApprove(t *testing.T) {
	db, mock, cleanup := newMaintenanceRepoMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending_proctor'")).
		WithArgs("req-1", "user-proctor", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Approve(context.Background(), "req-1", "user-proctor", at)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceRepositoryAcceptLoses(t *testing.T) {
	db, mock, cleanup := newMaintenanceRepoMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	// A concurrent accept already moved the request out of
	// approved_by_proctor, so the guarded update hits no rows.
	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'approved_by_proctor'")).
		WithArgs("req-1", "staff-1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Accept(context.Background(), "req-1", "staff-1", at)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceRepositoryStartRequiresAssignee(t *testing.T) {
	db, mock, cleanup := newMaintenanceRepoMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'assigned_to_staff' AND assigned_to = $2")).
		WithArgs("req-1", "staff-2", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Start(context.Background(), "req-1", "staff-2", at)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newMaintenanceRepoMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	statuses := []models.MaintenanceStatus{models.MaintenanceAssignedToStaff, models.MaintenanceInProgress}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM maintenance_requests WHERE status = ANY($1)")).
		WithArgs(pq.Array([]string{"assigned_to_staff", "in_progress"}), "staff-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByStatus(context.Background(), statuses, "staff-1", "")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceRepositoryAssignedJobsOrdering(t *testing.T) {
	db, mock, cleanup := newMaintenanceRepoMock(t)
	defer cleanup()
	repo := NewMaintenanceRepository(db)

	// Open jobs sort by urgency, then by when the problem was reported.
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, reported_date DESC")).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, err := repo.ListAssigned(context.Background(), "staff-1")
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}
