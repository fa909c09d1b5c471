package models

import "time"

// ViolationType categorises a disciplinary violation.
type ViolationType string

const (
	ViolationNoise   ViolationType = "noise"
	ViolationDamage  ViolationType = "damage"
	ViolationCurfew  ViolationType = "curfew"
	ViolationSmoking ViolationType = "smoking"
	ViolationVisitor ViolationType = "visitor"
	ViolationOther   ViolationType = "other"
)

// PenaltyStatus marks the lifecycle of a penalty. No transition into
// completed or cancelled is exposed yet; the statuses exist for future
// closure logic.
type PenaltyStatus string

const (
	PenaltyActive    PenaltyStatus = "active"
	PenaltyCompleted PenaltyStatus = "completed"
	PenaltyCancelled PenaltyStatus = "cancelled"
)

// Penalty records a disciplinary action against a student. EndDate is always
// StartDate + DurationDays.
type Penalty struct {
	ID            string        `db:"id" json:"id"`
	PenaltyCode   string        `db:"penalty_code" json:"penalty_code"`
	StudentID     string        `db:"student_id" json:"student_id"`
	ViolationType ViolationType `db:"violation_type" json:"violation_type"`
	Description   string        `db:"description" json:"description"`
	DurationDays  int           `db:"duration_days" json:"duration_days"`
	StartDate     time.Time     `db:"start_date" json:"start_date"`
	EndDate       time.Time     `db:"end_date" json:"end_date"`
	Status        PenaltyStatus `db:"status" json:"status"`
	AssignedBy    string        `db:"assigned_by" json:"assigned_by"`
	AssignedDate  time.Time     `db:"assigned_date" json:"assigned_date"`
	Consequences  *string       `db:"consequences" json:"consequences,omitempty"`

	StudentName    *string `db:"student_name" json:"student_name,omitempty"`
	StudentCode    *string `db:"student_code" json:"student_code,omitempty"`
	AssignedByName *string `db:"assigned_by_name" json:"assigned_by_name,omitempty"`
}
