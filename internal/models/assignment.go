package models

import "time"

// AssignmentStatus tracks the lifecycle of a room assignment. Completed and
// cancelled are final markers; assignment history is append-only.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// RoomAssignment links a student to a room. At most one active assignment may
// exist per student, and the count of active assignments per room is what the
// room's current_occupancy mirrors.
type RoomAssignment struct {
	ID               string           `db:"id" json:"id"`
	StudentID        string           `db:"student_id" json:"student_id"`
	RoomID           string           `db:"room_id" json:"room_id"`
	AssignmentDate   time.Time        `db:"assignment_date" json:"assignment_date"`
	CheckInDate      *time.Time       `db:"check_in_date" json:"check_in_date,omitempty"`
	ExpectedCheckOut *time.Time       `db:"expected_check_out" json:"expected_check_out,omitempty"`
	ActualCheckOut   *time.Time       `db:"actual_check_out" json:"actual_check_out,omitempty"`
	Status           AssignmentStatus `db:"status" json:"status"`
	AssignedBy       string           `db:"assigned_by" json:"assigned_by"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}

// DormResident is one row of the proctor's roster: an actively assigned
// student of the proctor's dorm with their room number.
type DormResident struct {
	StudentID   string `db:"student_id" json:"student_id"`
	FullName    string `db:"full_name" json:"full_name"`
	StudentCode string `db:"student_code" json:"student_code"`
	RoomNumber  string `db:"room_number" json:"room_number"`
}
