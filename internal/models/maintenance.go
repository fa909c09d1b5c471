package models

import "time"

// MaintenanceStatus enumerates the maintenance request state machine:
// pending_proctor -> approved_by_proctor -> assigned_to_staff -> in_progress
// -> completed, with a rejected branch off pending_proctor.
type MaintenanceStatus string

const (
	MaintenancePendingProctor  MaintenanceStatus = "pending_proctor"
	MaintenanceApproved        MaintenanceStatus = "approved_by_proctor"
	MaintenanceAssignedToStaff MaintenanceStatus = "assigned_to_staff"
	MaintenanceInProgress      MaintenanceStatus = "in_progress"
	MaintenanceCompleted       MaintenanceStatus = "completed"
	MaintenanceRejected        MaintenanceStatus = "rejected"
)

// IssueType categorises a maintenance issue.
type IssueType string

const (
	IssuePlumbing   IssueType = "plumbing"
	IssueElectrical IssueType = "electrical"
	IssueFurniture  IssueType = "furniture"
	IssueCleaning   IssueType = "cleaning"
	IssueOther      IssueType = "other"
)

// Urgency ranks how pressing a maintenance issue is.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// MaintenanceRequest tracks a room maintenance issue from student submission
// through proctor approval and staff completion. AssignedTo is set exactly
// while status is assigned_to_staff, in_progress or completed.
type MaintenanceRequest struct {
	ID              string            `db:"id" json:"id"`
	RequestCode     string            `db:"request_code" json:"request_code"`
	StudentID       string            `db:"student_id" json:"student_id"`
	RoomID          string            `db:"room_id" json:"room_id"`
	IssueType       IssueType         `db:"issue_type" json:"issue_type"`
	Title           string            `db:"title" json:"title"`
	Description     string            `db:"description" json:"description"`
	Urgency         Urgency           `db:"urgency" json:"urgency"`
	Status          MaintenanceStatus `db:"status" json:"status"`
	ReportedDate    time.Time         `db:"reported_date" json:"reported_date"`
	ApprovedBy      *string           `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedDate    *time.Time        `db:"approved_date" json:"approved_date,omitempty"`
	AssignedTo      *string           `db:"assigned_to" json:"assigned_to,omitempty"`
	AssignedDate    *time.Time        `db:"assigned_date" json:"assigned_date,omitempty"`
	StartedDate     *time.Time        `db:"started_date" json:"started_date,omitempty"`
	CompletedDate   *time.Time        `db:"completed_date" json:"completed_date,omitempty"`
	RejectionReason *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
}
