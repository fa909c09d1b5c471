package dto

// AssignRoomRequest is the proctor payload for assigning a student to a room.
// Dates use the YYYY-MM-DD form.
type AssignRoomRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	RoomID           string `json:"room_id" validate:"required"`
	AssignmentDate   string `json:"assignment_date" validate:"required,datetime=2006-01-02"`
	ExpectedCheckOut string `json:"expected_check_out" validate:"omitempty,datetime=2006-01-02"`
}

// AssignmentResult reports the created assignment.
type AssignmentResult struct {
	AssignmentID string `json:"assignment_id"`
	Status       string `json:"status"`
	RoomID       string `json:"room_id"`
	Occupancy    int    `json:"current_occupancy"`
}
