package models

import "time"

// LaundryStatus enumerates the laundry form state machine:
// pending_proctor -> approved_by_proctor -> verified_by_security -> taken_out,
// with a rejected branch off pending_proctor. taken_out is terminal and
// irreversible.
type LaundryStatus string

const (
	LaundryPendingProctor LaundryStatus = "pending_proctor"
	LaundryApproved       LaundryStatus = "approved_by_proctor"
	LaundryVerified       LaundryStatus = "verified_by_security"
	LaundryRejected       LaundryStatus = "rejected"
	LaundryTakenOut       LaundryStatus = "taken_out"
)

// Label returns the human-readable form of the status, shown on the public
// pickup page.
func (s LaundryStatus) Label() string {
	switch s {
	case LaundryPendingProctor:
		return "Pending Proctor Approval"
	case LaundryApproved:
		return "Approved by Proctor"
	case LaundryVerified:
		return "Verified by Security"
	case LaundryRejected:
		return "Rejected"
	case LaundryTakenOut:
		return "Taken Out"
	default:
		return string(s)
	}
}

// LaundryForm tracks a laundry submission from student through proctor
// approval, security verification and physical pickup. FormCode doubles as
// the QR payload on the printed slip.
type LaundryForm struct {
	ID                  string        `db:"id" json:"id"`
	FormCode            string        `db:"form_code" json:"form_code"`
	StudentID           string        `db:"student_id" json:"student_id"`
	ItemCount           int           `db:"item_count" json:"item_count"`
	ItemList            string        `db:"item_list" json:"item_list"`
	SpecialInstructions *string       `db:"special_instructions" json:"special_instructions,omitempty"`
	Status              LaundryStatus `db:"status" json:"status"`
	SubmissionDate      time.Time     `db:"submission_date" json:"submission_date"`
	ApprovedBy          *string       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedDate        *time.Time    `db:"approved_date" json:"approved_date,omitempty"`
	VerifiedBy          *string       `db:"verified_by" json:"verified_by,omitempty"`
	VerificationDate    *time.Time    `db:"verification_date" json:"verification_date,omitempty"`
	VerificationNotes   *string       `db:"verification_notes" json:"verification_notes,omitempty"`
	RejectionReason     *string       `db:"rejection_reason" json:"rejection_reason,omitempty"`

	// Joined for display; populated by list/lookup queries.
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
	StudentCode *string `db:"student_code" json:"student_code,omitempty"`
}
