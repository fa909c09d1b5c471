package models

import "time"

// AuditAction constants represent workflow actions to be logged.
const (
	AuditActionLogin               = "LOGIN"
	AuditActionRegister            = "REGISTER"
	AuditActionMaintenanceSubmit   = "MAINTENANCE_SUBMIT"
	AuditActionMaintenanceApprove  = "MAINTENANCE_APPROVE"
	AuditActionMaintenanceReject   = "MAINTENANCE_REJECT"
	AuditActionMaintenanceAccept   = "MAINTENANCE_ACCEPT"
	AuditActionMaintenanceStart    = "MAINTENANCE_START"
	AuditActionMaintenanceComplete = "MAINTENANCE_COMPLETE"
	AuditActionLaundrySubmit       = "LAUNDRY_SUBMIT"
	AuditActionLaundryApprove      = "LAUNDRY_APPROVE"
	AuditActionLaundryReject       = "LAUNDRY_REJECT"
	AuditActionLaundryVerify       = "LAUNDRY_VERIFY"
	AuditActionLaundryTakeOut      = "LAUNDRY_TAKE_OUT"
	AuditActionRoomAssign          = "ROOM_ASSIGN"
	AuditActionPenaltyCreate       = "PENALTY_CREATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
