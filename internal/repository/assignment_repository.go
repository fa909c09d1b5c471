package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// AssignmentRepository persists room assignments and drives the occupancy
// ledger. Assignment insert and occupancy increment commit as one unit.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateActive inserts an active assignment and increments the room's
// occupancy in a single transaction. Returns roomFull=true (and no error)
// when the guarded increment finds the room at capacity.
func (r *AssignmentRepository) CreateActive(ctx context.Context, a *models.RoomAssignment) (occupancy int, roomFull bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin assignment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	occupancy, ok, err := incrementRoomOccupancy(ctx, tx, a.RoomID)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		_ = tx.Rollback()
		return 0, true, nil
	}

	const insertQuery = `INSERT INTO room_assignments (id, student_id, room_id, assignment_date, check_in_date, expected_check_out, status, assigned_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		a.ID, a.StudentID, a.RoomID, a.AssignmentDate, a.CheckInDate,
		a.ExpectedCheckOut, a.Status, a.AssignedBy, a.CreatedAt,
	); err != nil {
		return 0, false, fmt.Errorf("insert assignment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit assignment: %w", err)
	}
	return occupancy, false, nil
}

// FindActiveByStudent returns the student's active assignment, or nil.
func (r *AssignmentRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.RoomAssignment, error) {
	const query = `SELECT id, student_id, room_id, assignment_date, check_in_date, expected_check_out, actual_check_out, status, assigned_by, created_at
FROM room_assignments WHERE student_id = $1 AND status = 'active'`
	var a models.RoomAssignment
	if err := r.db.GetContext(ctx, &a, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	return &a, nil
}

// ListActiveRoommates returns active co-occupants of a room, excluding the
// given student.
func (r *AssignmentRepository) ListActiveRoommates(ctx context.Context, roomID, excludeStudentID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.user_id, s.student_code, s.student_type, s.academic_year, s.department, s.year_of_study, u.full_name, s.created_at
FROM room_assignments ra
JOIN students s ON s.id = ra.student_id
JOIN users u ON u.id = s.user_id
WHERE ra.room_id = $1 AND ra.status = 'active' AND ra.student_id <> $2
ORDER BY u.full_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, roomID, excludeStudentID); err != nil {
		return nil, fmt.Errorf("list roommates: %w", err)
	}
	return students, nil
}

// ListResidentsByDorm returns the roster of actively assigned students for
// every room of a dorm, ordered by room then name.
func (r *AssignmentRepository) ListResidentsByDorm(ctx context.Context, dormID string) ([]models.DormResident, error) {
	const query = `SELECT ra.student_id, u.full_name, s.student_code, rm.room_number
FROM room_assignments ra
JOIN rooms rm ON rm.id = ra.room_id
JOIN students s ON s.id = ra.student_id
JOIN users u ON u.id = s.user_id
WHERE rm.dorm_id = $1 AND ra.status = 'active'
ORDER BY rm.room_number, u.full_name`
	var residents []models.DormResident
	if err := r.db.SelectContext(ctx, &residents, query, dormID); err != nil {
		return nil, fmt.Errorf("list dorm residents: %w", err)
	}
	return residents, nil
}

// CountActiveByRoom reports active assignments for a room; test harnesses use
// it to check the occupancy invariant against the counter.
func (r *AssignmentRepository) CountActiveByRoom(ctx context.Context, roomID string) (int, error) {
	const query = `SELECT COUNT(*) FROM room_assignments WHERE room_id = $1 AND status = 'active'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, roomID); err != nil {
		return 0, fmt.Errorf("count active assignments: %w", err)
	}
	return count, nil
}
