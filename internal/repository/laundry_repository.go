package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// LaundryRepository persists laundry forms. Transitions are status-guarded
// conditional updates so that concurrent attempts resolve to exactly one
// winner; taken_out in particular must never be entered twice.
type LaundryRepository struct {
	db *sqlx.DB
}

// NewLaundryRepository constructs the repository.
func NewLaundryRepository(db *sqlx.DB) *LaundryRepository {
	return &LaundryRepository{db: db}
}

const laundryColumns = `lf.id, lf.form_code, lf.student_id, lf.item_count, lf.item_list, lf.special_instructions, lf.status, lf.submission_date, lf.approved_by, lf.approved_date, lf.verified_by, lf.verification_date, lf.verification_notes, lf.rejection_reason, u.full_name AS student_name, s.student_code`

const laundryFrom = `
FROM laundry_forms lf
JOIN students s ON s.id = lf.student_id
JOIN users u ON u.id = s.user_id`

// Create inserts a new form. A unique violation on form_code is surfaced
// unwrapped so the caller can regenerate and retry.
func (r *LaundryRepository) Create(ctx context.Context, f *models.LaundryForm) error {
	const query = `INSERT INTO laundry_forms (id, form_code, student_id, item_count, item_list, special_instructions, status, submission_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.FormCode, f.StudentID, f.ItemCount, f.ItemList,
		f.SpecialInstructions, f.Status, f.SubmissionDate,
	)
	return err
}

// FindByID loads a form with the requester's name.
func (r *LaundryRepository) FindByID(ctx context.Context, id string) (*models.LaundryForm, error) {
	query := `SELECT ` + laundryColumns + laundryFrom + ` WHERE lf.id = $1`
	var f models.LaundryForm
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByCode loads a form by its business code, the QR payload.
func (r *LaundryRepository) FindByCode(ctx context.Context, formCode string) (*models.LaundryForm, error) {
	query := `SELECT ` + laundryColumns + laundryFrom + ` WHERE lf.form_code = $1`
	var f models.LaundryForm
	if err := r.db.GetContext(ctx, &f, query, formCode); err != nil {
		return nil, err
	}
	return &f, nil
}

// Approve moves pending_proctor -> approved_by_proctor.
func (r *LaundryRepository) Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error) {
	const query = `UPDATE laundry_forms
SET status = 'approved_by_proctor', approved_by = $2, approved_date = $3
WHERE id = $1 AND status = 'pending_proctor'`
	return r.exec(ctx, query, id, approverUserID, at)
}

// Reject moves pending_proctor -> rejected.
func (r *LaundryRepository) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	const query = `UPDATE laundry_forms
SET status = 'rejected', rejection_reason = $2
WHERE id = $1 AND status = 'pending_proctor'`
	return r.exec(ctx, query, id, reason)
}

// Verify moves approved_by_proctor -> verified_by_security, recording the
// verifying officer and note.
func (r *LaundryRepository) Verify(ctx context.Context, id, securityID string, notes *string, at time.Time) (bool, error) {
	const query = `UPDATE laundry_forms
SET status = 'verified_by_security', verified_by = $2, verification_date = $3, verification_notes = $4
WHERE id = $1 AND status = 'approved_by_proctor'`
	return r.exec(ctx, query, id, securityID, at, notes)
}

// TakeOut moves verified_by_security -> taken_out by row id.
func (r *LaundryRepository) TakeOut(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE laundry_forms
SET status = 'taken_out'
WHERE id = $1 AND status = 'verified_by_security'`
	return r.exec(ctx, query, id)
}

// TakeOutByCode moves verified_by_security -> taken_out by business code.
// The status guard makes redemption idempotence-safe: a second attempt, or a
// concurrent duplicate, affects zero rows.
func (r *LaundryRepository) TakeOutByCode(ctx context.Context, formCode string) (bool, error) {
	const query = `UPDATE laundry_forms
SET status = 'taken_out'
WHERE form_code = $1 AND status = 'verified_by_security'`
	return r.exec(ctx, query, formCode)
}

// ListByStudent returns a student's forms, newest first.
func (r *LaundryRepository) ListByStudent(ctx context.Context, studentID string) ([]models.LaundryForm, error) {
	query := `SELECT ` + laundryColumns + laundryFrom + ` WHERE lf.student_id = $1 ORDER BY lf.submission_date DESC`
	return r.list(ctx, query, studentID)
}

// ListPendingProctor returns forms awaiting proctor review.
func (r *LaundryRepository) ListPendingProctor(ctx context.Context) ([]models.LaundryForm, error) {
	query := `SELECT ` + laundryColumns + laundryFrom + ` WHERE lf.status = 'pending_proctor' ORDER BY lf.submission_date DESC`
	return r.list(ctx, query)
}

// ListPendingVerification returns approved forms awaiting security.
func (r *LaundryRepository) ListPendingVerification(ctx context.Context) ([]models.LaundryForm, error) {
	query := `SELECT ` + laundryColumns + laundryFrom + ` WHERE lf.status = 'approved_by_proctor' ORDER BY lf.approved_date DESC`
	return r.list(ctx, query)
}

// CountByStatus reports forms in the given status, optionally for one student.
func (r *LaundryRepository) CountByStatus(ctx context.Context, status models.LaundryStatus, studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM laundry_forms WHERE status = $1`
	args := []interface{}{status}
	if studentID != "" {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count laundry forms: %w", err)
	}
	return count, nil
}

// CountVerifiedSince reports forms verified at or after the cutoff in the
// given status, feeding the security dashboard's daily counters.
func (r *LaundryRepository) CountVerifiedSince(ctx context.Context, status models.LaundryStatus, cutoff time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM laundry_forms WHERE status = $1 AND verification_date >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, status, cutoff); err != nil {
		return 0, fmt.Errorf("count verified laundry forms: %w", err)
	}
	return count, nil
}

func (r *LaundryRepository) exec(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update laundry form: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *LaundryRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.LaundryForm, error) {
	var items []models.LaundryForm
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list laundry forms: %w", err)
	}
	return items, nil
}
