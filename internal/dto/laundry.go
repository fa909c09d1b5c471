package dto

import "time"

// CreateLaundryRequest is the student-facing submission payload.
type CreateLaundryRequest struct {
	ItemCount           int    `json:"item_count" validate:"required,min=1"`
	ItemList            string `json:"item_list" validate:"required"`
	SpecialInstructions string `json:"special_instructions"`
}

// VerifyLaundryRequest carries the security officer's verification note.
type VerifyLaundryRequest struct {
	VerificationNotes string `json:"verification_notes"`
}

// QRScanRequest is the authenticated scan payload; the QR code content is the
// form's business code.
type QRScanRequest struct {
	QRCode string `json:"qr_code" binding:"required"`
}

// LaundryReceipt is returned when a form is redeemed at the gate.
type LaundryReceipt struct {
	FormCode    string    `json:"form_code"`
	StudentName string    `json:"student_name"`
	StudentCode string    `json:"student_code,omitempty"`
	ItemCount   int       `json:"item_count"`
	Status      string    `json:"status"`
	TakenOutAt  time.Time `json:"taken_out_at"`
}

// LaundryStatusInfo is the public, unauthenticated status projection.
type LaundryStatusInfo struct {
	FormCode       string    `json:"form_code"`
	StudentName    string    `json:"student_name"`
	ItemCount      int       `json:"item_count"`
	Status         string    `json:"status"`
	StatusDisplay  string    `json:"status_display"`
	SubmissionDate time.Time `json:"submission_date"`
	CanTakeOut     bool      `json:"can_take_out"`
}
