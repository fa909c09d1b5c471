package dto

// CreateMaintenanceRequest is the student-facing submission payload.
type CreateMaintenanceRequest struct {
	RoomID      string `json:"room_id" validate:"required"`
	IssueType   string `json:"issue_type" validate:"required,oneof=plumbing electrical furniture cleaning other"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Urgency     string `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

// RejectRequest carries the optional rejection reason for proctor rejections.
type RejectRequest struct {
	Reason string `json:"rejection_reason"`
}
