package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// MaintenanceRepository persists maintenance requests. Every transition is a
// status-guarded conditional update; a plain read-then-write would race under
// concurrent actors.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs the repository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `id, request_code, student_id, room_id, issue_type, title, description, urgency, status, reported_date, approved_by, approved_date, assigned_to, assigned_date, started_date, completed_date, rejection_reason`

// Create inserts a new request. A unique violation on request_code is
// surfaced unwrapped so the caller can regenerate and retry.
func (r *MaintenanceRepository) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	const query = `INSERT INTO maintenance_requests (id, request_code, student_id, room_id, issue_type, title, description, urgency, status, reported_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.RequestCode, m.StudentID, m.RoomID, m.IssueType,
		m.Title, m.Description, m.Urgency, m.Status, m.ReportedDate,
	)
	return err
}

// FindByID loads a request.
func (r *MaintenanceRepository) FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE id = $1`
	var m models.MaintenanceRequest
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Approve moves pending_proctor -> approved_by_proctor. Returns false when
// the request is missing or not pending.
func (r *MaintenanceRepository) Approve(ctx context.Context, id, approverUserID string, at time.Time) (bool, error) {
	const query = `UPDATE maintenance_requests
SET status = 'approved_by_proctor', approved_by = $2, approved_date = $3
WHERE id = $1 AND status = 'pending_proctor'`
	return r.exec(ctx, query, id, approverUserID, at)
}

// Reject moves pending_proctor -> rejected with an optional reason.
func (r *MaintenanceRepository) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	const query = `UPDATE maintenance_requests
SET status = 'rejected', rejection_reason = $2
WHERE id = $1 AND status = 'pending_proctor'`
	return r.exec(ctx, query, id, reason)
}

// Accept moves approved_by_proctor -> assigned_to_staff, claiming the job for
// the acting staff member. Two concurrent accepts resolve to one winner.
func (r *MaintenanceRepository) Accept(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	const query = `UPDATE maintenance_requests
SET status = 'assigned_to_staff', assigned_to = $2, assigned_date = $3
WHERE id = $1 AND status = 'approved_by_proctor'`
	return r.exec(ctx, query, id, staffID, at)
}

// Start moves assigned_to_staff -> in_progress, only for the assignee.
func (r *MaintenanceRepository) Start(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	const query = `UPDATE maintenance_requests
SET status = 'in_progress', started_date = $3
WHERE id = $1 AND status = 'assigned_to_staff' AND assigned_to = $2`
	return r.exec(ctx, query, id, staffID, at)
}

// Complete moves in_progress -> completed, only for the assignee.
func (r *MaintenanceRepository) Complete(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	const query = `UPDATE maintenance_requests
SET status = 'completed', completed_date = $3
WHERE id = $1 AND status = 'in_progress' AND assigned_to = $2`
	return r.exec(ctx, query, id, staffID, at)
}

// ListByStudent returns a student's requests, newest first.
func (r *MaintenanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE student_id = $1 ORDER BY reported_date DESC`
	return r.list(ctx, query, studentID)
}

// ListPending returns requests awaiting proctor review.
func (r *MaintenanceRepository) ListPending(ctx context.Context) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE status = 'pending_proctor' ORDER BY reported_date DESC`
	return r.list(ctx, query)
}

// ListAvailable returns approved jobs no staff member has claimed yet,
// most urgent first.
func (r *MaintenanceRepository) ListAvailable(ctx context.Context) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests
WHERE status = 'approved_by_proctor'
ORDER BY CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, reported_date DESC`
	return r.list(ctx, query)
}

// ListAssigned returns the staff member's open jobs, most urgent first.
func (r *MaintenanceRepository) ListAssigned(ctx context.Context, staffID string) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests
WHERE assigned_to = $1 AND status IN ('assigned_to_staff', 'in_progress')
ORDER BY CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, reported_date DESC`
	return r.list(ctx, query, staffID)
}

// CountByStatus reports requests currently in the given statuses, optionally
// restricted to one assignee or one student.
func (r *MaintenanceRepository) CountByStatus(ctx context.Context, statuses []models.MaintenanceStatus, staffID, studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM maintenance_requests WHERE status = ANY($1)`
	args := []interface{}{pq.Array(statusStrings(statuses))}
	if staffID != "" {
		args = append(args, staffID)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}
	if studentID != "" {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count maintenance requests: %w", err)
	}
	return count, nil
}

func (r *MaintenanceRepository) exec(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update maintenance request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *MaintenanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.MaintenanceRequest, error) {
	var items []models.MaintenanceRequest
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return items, nil
}

func statusStrings(statuses []models.MaintenanceStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
