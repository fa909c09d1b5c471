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

func newLaundryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func laundryRows(status models.LaundryStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "form_code", "student_id", "item_count", "item_list",
		"special_instructions", "status", "submission_date", "approved_by",
		"approved_date", "verified_by", "verification_date",
		"verification_notes", "rejection_reason", "student_name", "student_code",
	}).AddRow(
		"form-1", "LAU-2026-A1B2C3", "stu-1", 5, "3 shirts, 2 trousers",
		nil, status, time.Now(), nil, nil, nil, nil, nil, nil,
		"Abebe Bikila", "AAU-1001",
	)
}

func TestLaundryRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newLaundryRepoMock(t)
	defer cleanup()
	repo := NewLaundryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lf.form_code = $1")).
		WithArgs("LAU-2026-A1B2C3").
		WillReturnRows(laundryRows(models.LaundryVerified))

	form, err := repo.FindByCode(context.Background(), "LAU-2026-A1B2C3")
	require.NoError(t, err)
	require.Equal(t, "form-1", form.ID)
	require.Equal(t, models.LaundryVerified, form.Status)
	require.NotNil(t, form.StudentName)
	require.Equal(t, "Abebe Bikila", *form.StudentName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLaundryRepositoryTakeOutByCode(t *testing.T) {
	db, mock, cleanup := newLaundryRepoMock(t)
	defer cleanup()
	repo := NewLaundryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE form_code = $1 AND status = 'verified_by_security'")).
		WithArgs("LAU-2026-A1B2C3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TakeOutByCode(context.Background(), "LAU-2026-A1B2C3")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLaundryRepositoryTakeOutByCodeAlreadyTaken(t *testing.T) {
	db, mock, cleanup := newLaundryRepoMock(t)
	defer cleanup()
	repo := NewLaundryRepository(db)

	// The guarded update affects zero rows once the form has left
	// verified_by_security.
	mock.ExpectExec(regexp.QuoteMeta("WHERE form_code = $1 AND status = 'verified_by_security'")).
		WithArgs("LAU-2026-A1B2C3").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TakeOutByCode(context.Background(), "LAU-2026-A1B2C3")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLaundryRepositoryApprove(t *testing.T) {
	db, mock, cleanup := newLaundryRepoMock(t)
	defer cleanup()
	repo := NewLaundryRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending_proctor'")).
		WithArgs("form-1", "user-proctor", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Approve(context.Background(), "form-1", "user-proctor", at)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLaundryRepositoryCountByStatusForStudent(t *testing.T) {
	db, mock, cleanup := newLaundryRepoMock(t)
	defer cleanup()
	repo := NewLaundryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM laundry_forms WHERE status = $1 AND student_id = $2")).
		WithArgs(models.LaundryPendingProctor, "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByStatus(context.Background(), models.LaundryPendingProctor, "stu-1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
