package models

import "time"

// RoomStatus tracks availability of an individual room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomReserved    RoomStatus = "reserved"
)

// Dorm represents a residence hall.
type Dorm struct {
	ID        string    `db:"id" json:"id"`
	DormCode  string    `db:"dorm_code" json:"dorm_code"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Room represents an individual room within a dorm. The occupancy fields are
// owned by the room assignment workflow; every other component reads them only.
type Room struct {
	ID               string     `db:"id" json:"id"`
	DormID           string     `db:"dorm_id" json:"dorm_id"`
	RoomNumber       string     `db:"room_number" json:"room_number"`
	Floor            *int       `db:"floor" json:"floor,omitempty"`
	Capacity         int        `db:"capacity" json:"capacity"`
	CurrentOccupancy int        `db:"current_occupancy" json:"current_occupancy"`
	RoomType         string     `db:"room_type" json:"room_type"`
	Status           RoomStatus `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
