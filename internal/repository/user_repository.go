package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// UserRepository provides persistence for users, refresh tokens and profile
// resolution.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername loads a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, full_name, role, email, phone, active, last_login, created_at, updated_at
FROM users WHERE username = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, full_name, role, email, phone, active, last_login, created_at, updated_at
FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (id, username, password_hash, full_name, role, email, phone, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName, user.Role,
		user.Email, user.Phone, user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the latest successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ProfileIDForUser resolves the role-specific profile row id for a user.
// Returns empty when the user has no profile of that role.
func (r *UserRepository) ProfileIDForUser(ctx context.Context, role models.UserRole, userID string) (string, error) {
	var table string
	switch role {
	case models.RoleStudent:
		table = "students"
	case models.RoleProctor:
		table = "proctors"
	case models.RoleStaff:
		table = "staff"
	case models.RoleSecurity:
		table = "security"
	default:
		return "", nil
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1`, table)
	var id string
	if err := r.db.GetContext(ctx, &id, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("resolve %s profile: %w", role, err)
	}
	return id, nil
}

// FindProctorByID loads a proctor profile with the owning user's name.
func (r *UserRepository) FindProctorByID(ctx context.Context, id string) (*models.Proctor, error) {
	const query = `SELECT p.id, p.user_id, p.proctor_code, p.assigned_dorm, u.full_name, p.created_at
FROM proctors p
JOIN users u ON u.id = p.user_id
WHERE p.id = $1`
	var proctor models.Proctor
	if err := r.db.GetContext(ctx, &proctor, query, id); err != nil {
		return nil, err
	}
	return &proctor, nil
}

// CreateProfile inserts the role-specific profile row for a new user. Admin
// users have no profile table and the call is a no-op for them.
func (r *UserRepository) CreateProfile(ctx context.Context, role models.UserRole, id, userID, code string, createdAt time.Time) error {
	var query string
	switch role {
	case models.RoleStudent:
		query = `INSERT INTO students (id, user_id, student_code, student_type, created_at) VALUES ($1, $2, $3, 'government', $4)`
	case models.RoleProctor:
		query = `INSERT INTO proctors (id, user_id, proctor_code, created_at) VALUES ($1, $2, $3, $4)`
	case models.RoleStaff:
		query = `INSERT INTO staff (id, user_id, staff_code, created_at) VALUES ($1, $2, $3, $4)`
	case models.RoleSecurity:
		query = `INSERT INTO security (id, user_id, security_code, created_at) VALUES ($1, $2, $3, $4)`
	default:
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, id, userID, code, createdAt); err != nil {
		return fmt.Errorf("insert %s profile: %w", role, err)
	}
	return nil
}

// CreateRefreshToken persists an issued refresh token.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt,
		token.Revoked, token.IPAddress, token.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken loads a refresh token by value.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
FROM refresh_tokens WHERE token = $1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks a single token revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live token for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}
