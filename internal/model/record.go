package model

import (
	"github.com/google/uuid"
)

// Record is a clinical record. PatientID, DoctorID and DepartmentID are set
// once at creation; DoctorID is the authoring doctor and DepartmentID is
// copied from that doctor's affiliation at creation time. Updates touch the
// free-text clinical fields only.
type Record struct {
	Base
	PatientID    uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID     uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DepartmentID uuid.UUID `json:"department_id" db:"department_id"`
	Diagnostics  string    `json:"diagnostics" db:"diagnostics"`
	Observations string    `json:"observations" db:"observations"`
	Treatments   string    `json:"treatments" db:"treatments"`
	Misc         *string   `json:"misc,omitempty" db:"misc"`
}

// Record list scopes.
const (
	RecordScopeMine       = "mine"
	RecordScopeDepartment = "department"
)

// CreateRecordRequest represents record creation parameters. Any
// caller-supplied doctor or department is ignored; both are populated
// server-side from the authenticated doctor.
type CreateRecordRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	Diagnostics  string    `json:"diagnostics" binding:"required"`
	Observations string    `json:"observations"`
	Treatments   string    `json:"treatments"`
	Misc         *string   `json:"misc"`
}

// UpdateRecordRequest represents record update parameters.
type UpdateRecordRequest struct {
	Diagnostics  *string `json:"diagnostics"`
	Observations *string `json:"observations"`
	Treatments   *string `json:"treatments"`
	Misc         *string `json:"misc"`
}
