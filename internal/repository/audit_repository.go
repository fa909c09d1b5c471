package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// AuditRepository persists the audit trail. Writes happen off the request
// path through the background queue.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit record.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.Resource,
		entry.ResourceID, entry.Detail, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListRecent returns the latest audit records up to limit.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, user_id, action, resource, resource_id, detail, created_at
FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	var entries []models.AuditLog
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}
