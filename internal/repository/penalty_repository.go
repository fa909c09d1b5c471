package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// PenaltyRepository persists disciplinary penalties. The ledger is append
// mostly; no closure transitions exist yet.
type PenaltyRepository struct {
	db *sqlx.DB
}

// NewPenaltyRepository constructs the repository.
func NewPenaltyRepository(db *sqlx.DB) *PenaltyRepository {
	return &PenaltyRepository{db: db}
}

const penaltyColumns = `p.id, p.penalty_code, p.student_id, p.violation_type, p.description, p.duration_days, p.start_date, p.end_date, p.status, p.assigned_by, p.assigned_date, p.consequences, u.full_name AS student_name, s.student_code, au.full_name AS assigned_by_name`

const penaltyFrom = `
FROM penalties p
JOIN students s ON s.id = p.student_id
JOIN users u ON u.id = s.user_id
JOIN users au ON au.id = p.assigned_by`

// Create inserts a penalty. A unique violation on penalty_code is surfaced
// unwrapped so the caller can regenerate and retry.
func (r *PenaltyRepository) Create(ctx context.Context, p *models.Penalty) error {
	const query = `INSERT INTO penalties (id, penalty_code, student_id, violation_type, description, duration_days, start_date, end_date, status, assigned_by, assigned_date, consequences)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.PenaltyCode, p.StudentID, p.ViolationType, p.Description,
		p.DurationDays, p.StartDate, p.EndDate, p.Status, p.AssignedBy,
		p.AssignedDate, p.Consequences,
	)
	return err
}

// ListByStudent returns a student's penalties, newest first.
func (r *PenaltyRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Penalty, error) {
	query := `SELECT ` + penaltyColumns + penaltyFrom + ` WHERE p.student_id = $1 ORDER BY p.assigned_date DESC`
	return r.list(ctx, query, studentID)
}

// ListAll returns the full ledger, newest first.
func (r *PenaltyRepository) ListAll(ctx context.Context) ([]models.Penalty, error) {
	query := `SELECT ` + penaltyColumns + penaltyFrom + ` ORDER BY p.assigned_date DESC`
	return r.list(ctx, query)
}

// CountActive reports active penalties, optionally for one student.
func (r *PenaltyRepository) CountActive(ctx context.Context, studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM penalties WHERE status = 'active'`
	args := []interface{}{}
	if studentID != "" {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count penalties: %w", err)
	}
	return count, nil
}

func (r *PenaltyRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Penalty, error) {
	var items []models.Penalty
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list penalties: %w", err)
	}
	return items, nil
}
