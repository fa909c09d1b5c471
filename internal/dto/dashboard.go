package dto

// RoommateInfo describes a fellow occupant on the student room view.
type RoommateInfo struct {
	StudentID   string `json:"student_id"`
	FullName    string `json:"full_name"`
	StudentCode string `json:"student_code"`
}

// StudentRoomInfo is the condensed room view on the student dashboard.
type StudentRoomInfo struct {
	RoomID     string         `json:"room_id"`
	RoomNumber string         `json:"room_number"`
	DormName   string         `json:"dorm_name"`
	Floor      *int           `json:"floor,omitempty"`
	Roommates  []RoommateInfo `json:"roommates,omitempty"`
}

// StudentDashboard aggregates the student's room and workflow counters.
type StudentDashboard struct {
	StudentID          string           `json:"student_id"`
	StudentCode        string           `json:"student_code"`
	FullName           string           `json:"full_name"`
	Room               *StudentRoomInfo `json:"room,omitempty"`
	ActivePenalties    int              `json:"active_penalties"`
	PendingMaintenance int              `json:"pending_maintenance"`
	PendingLaundry     int              `json:"pending_laundry"`
}

// ProctorDashboard aggregates the approval queues a proctor works through.
type ProctorDashboard struct {
	ProctorID          string `json:"proctor_id"`
	FullName           string `json:"full_name"`
	PendingMaintenance int    `json:"pending_maintenance"`
	PendingLaundry     int    `json:"pending_laundry"`
	ActivePenalties    int    `json:"active_penalties"`
}

// StaffDashboard aggregates maintenance job counters for a staff member.
type StaffDashboard struct {
	StaffID        string `json:"staff_id"`
	FullName       string `json:"full_name"`
	AvailableJobs  int    `json:"available_jobs"`
	PendingJobs    int    `json:"pending_jobs"`
	InProgressJobs int    `json:"in_progress_jobs"`
	CompletedJobs  int    `json:"completed_jobs"`
}

// SecurityDashboard aggregates laundry verification counters at the gate.
type SecurityDashboard struct {
	SecurityID          string `json:"security_id"`
	FullName            string `json:"full_name"`
	PendingVerification int    `json:"pending_verification"`
	VerifiedToday       int    `json:"verified_today"`
	TakenOutToday       int    `json:"taken_out_today"`
}
