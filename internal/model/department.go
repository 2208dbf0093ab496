package model

// Department is an organizational unit. Doctors and patients are affiliated
// with at most one department; records are always tagged with one.
type Department struct {
	Base
	Name           string `json:"name" db:"name"`
	Location       string `json:"location" db:"location"`
	Specialization string `json:"specialization" db:"specialization"`
	Diagnostics    string `json:"diagnostics" db:"diagnostics"`
}

// CreateDepartmentRequest represents department creation parameters.
type CreateDepartmentRequest struct {
	Name           string `json:"name" binding:"required"`
	Location       string `json:"location" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Diagnostics    string `json:"diagnostics"`
}
