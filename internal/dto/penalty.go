package dto

// CreatePenaltyRequest is the proctor payload for assigning a penalty.
type CreatePenaltyRequest struct {
	StudentID     string `json:"student_id" validate:"required"`
	ViolationType string `json:"violation_type" validate:"required,oneof=noise damage curfew smoking visitor other"`
	Description   string `json:"description" validate:"required"`
	DurationDays  int    `json:"duration_days" validate:"required,min=1"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Consequences  string `json:"consequences"`
}
