package model

import (
	"github.com/google/uuid"
)

// DoctorProfile is the role-specific extension of a doctor user. The
// department reference is nullable: an unassigned doctor cannot author
// records until they pick a department.
type DoctorProfile struct {
	Base
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`
}

// PatientProfile is the role-specific extension of a patient user. The
// department is never set by the patient; it tracks the department of the
// doctor who most recently updated the profile.
type PatientProfile struct {
	Base
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`
}

// DoctorSummary is the listing shape for rosters and the directory.
type DoctorSummary struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`
}

// PatientSummary is the listing shape for rosters and the directory.
type PatientSummary struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`
}

// UpdateDoctorProfileRequest updates the requesting doctor's own profile.
type UpdateDoctorProfileRequest struct {
	DepartmentID *uuid.UUID `json:"department_id"`
}

// UpdatePatientProfileRequest is issued by a doctor against a patient.
// The patient's department is never part of the request; the facade
// copies it from the acting doctor.
type UpdatePatientProfileRequest struct {
	Name *string `json:"name"`
}
