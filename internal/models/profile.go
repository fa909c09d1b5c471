package models

import "time"

// StudentType classifies sponsorship of a resident student.
type StudentType string

const (
	StudentGovernment    StudentType = "government"
	StudentSelfSponsored StudentType = "self_sponsored"
	StudentDisabled      StudentType = "disabled"
)

// Student is the role profile for resident students.
type Student struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	StudentCode  string      `db:"student_code" json:"student_code"`
	StudentType  StudentType `db:"student_type" json:"student_type"`
	AcademicYear *string     `db:"academic_year" json:"academic_year,omitempty"`
	Department   *string     `db:"department" json:"department,omitempty"`
	YearOfStudy  *int        `db:"year_of_study" json:"year_of_study,omitempty"`
	FullName     string      `db:"full_name" json:"full_name"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// Proctor is the role profile for dorm proctors.
type Proctor struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	ProctorCode  string    `db:"proctor_code" json:"proctor_code"`
	AssignedDorm *string   `db:"assigned_dorm" json:"assigned_dorm,omitempty"`
	FullName     string    `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Staff is the role profile for maintenance staff members.
type Staff struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	StaffCode  string    `db:"staff_code" json:"staff_code"`
	Department *string   `db:"department" json:"department,omitempty"`
	Position   *string   `db:"position" json:"position,omitempty"`
	FullName   string    `db:"full_name" json:"full_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Security is the role profile for gate security officers.
type Security struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	SecurityCode string    `db:"security_code" json:"security_code"`
	Shift        *string   `db:"shift" json:"shift,omitempty"`
	AssignedPost *string   `db:"assigned_post" json:"assigned_post,omitempty"`
	FullName     string    `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
