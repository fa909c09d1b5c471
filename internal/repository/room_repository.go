package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aau-dhms/dhms-api/internal/models"
)

// RoomRepository provides dorm and room lookups plus the occupancy ledger
// primitive. Occupancy-derived fields are written only through this file.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, dorm_id, room_number, floor, capacity, current_occupancy, room_type, status, created_at`

// FindByID loads a room.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByDorm returns the rooms of a dorm ordered by floor then number.
func (r *RoomRepository) ListByDorm(ctx context.Context, dormID string) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE dorm_id = $1 ORDER BY floor, room_number`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, dormID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailable returns rooms that still accept assignments.
func (r *RoomRepository) ListAvailable(ctx context.Context) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE status = 'available' ORDER BY dorm_id, floor, room_number`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

// ListDorms returns active dorms.
func (r *RoomRepository) ListDorms(ctx context.Context) ([]models.Dorm, error) {
	const query = `SELECT id, dorm_code, name, type, location, status, created_at FROM dorms WHERE status = 'active' ORDER BY name`
	var dorms []models.Dorm
	if err := r.db.SelectContext(ctx, &dorms, query); err != nil {
		return nil, fmt.Errorf("list dorms: %w", err)
	}
	return dorms, nil
}

// FindDorm loads a single dorm.
func (r *RoomRepository) FindDorm(ctx context.Context, id string) (*models.Dorm, error) {
	const query = `SELECT id, dorm_code, name, type, location, status, created_at FROM dorms WHERE id = $1`
	var dorm models.Dorm
	if err := r.db.GetContext(ctx, &dorm, query, id); err != nil {
		return nil, err
	}
	return &dorm, nil
}

// incrementRoomOccupancy is the capacity-safe increment primitive. The guard
// on current_occupancy keeps two concurrent assignments from overfilling the
// room: whichever update runs second sees the bumped value and affects zero
// rows. Returns the new occupancy, or ok=false when the room is full.
func incrementRoomOccupancy(ctx context.Context, ext sqlx.ExtContext, roomID string) (occupancy int, ok bool, err error) {
	const query = `UPDATE rooms
SET current_occupancy = current_occupancy + 1,
	status = CASE WHEN current_occupancy + 1 >= capacity THEN 'occupied' ELSE status END
WHERE id = $1 AND current_occupancy < capacity
RETURNING current_occupancy`

	row := ext.QueryRowxContext(ctx, query, roomID)
	if err := row.Scan(&occupancy); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increment occupancy: %w", err)
	}
	return occupancy, true, nil
}
