// Package authz is the authorization engine: pure decision predicates over
// (actor, action, target) and scoping-filter producers for list queries.
// It performs no I/O; callers resolve the actor and target rows and map a
// denial to a transport-level error.
package authz

import (
	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/model"
)

// Actor is the authorization view of an authenticated user: role, the
// role-specific profile ID and, for doctors and patients, the department
// affiliation. ProfileID is uuid.Nil for admins.
type Actor struct {
	UserID       uuid.UUID
	Role         string
	ProfileID    uuid.UUID
	DepartmentID *uuid.UUID
}

// IsDoctor reports whether the actor is a doctor.
func (a Actor) IsDoctor() bool { return a.Role == model.RoleDoctor }

// IsPatient reports whether the actor is a patient.
func (a Actor) IsPatient() bool { return a.Role == model.RolePatient }

// IsAdmin reports whether the actor is an admin.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// sameDepartment reports whether the actor's department matches dept.
// Both sides must be set; an unaffiliated actor never matches.
func (a Actor) sameDepartment(dept *uuid.UUID) bool {
	return a.DepartmentID != nil && dept != nil && *a.DepartmentID == *dept
}

// CanViewPatientProfile applies the department-match rule for reads. A
// profile with no department is adoptable: any doctor may view it. A
// patient may view their own profile.
func CanViewPatientProfile(a Actor, p *model.PatientProfile) bool {
	if a.IsPatient() {
		return a.ProfileID == p.ID
	}
	return CanModifyPatientProfile(a, p)
}

// CanModifyPatientProfile gates updates and deletes: doctors only, and
// only within their department, with the unassigned-patient relaxation.
func CanModifyPatientProfile(a Actor, p *model.PatientProfile) bool {
	if !a.IsDoctor() {
		return false
	}
	return p.DepartmentID == nil || a.sameDepartment(p.DepartmentID)
}

// CanCreateRecord requires the authoring doctor's department to equal the
// subject patient's department. A record's department is never null, so a
// doctor or patient without one always fails the match.
func CanCreateRecord(a Actor, patient *model.PatientProfile) bool {
	if !a.IsDoctor() {
		return false
	}
	return a.sameDepartment(patient.DepartmentID)
}

// CanViewRecord applies the department-match rule to an existing record.
// A patient may view a record they are the subject of.
func CanViewRecord(a Actor, r *model.Record) bool {
	if a.IsPatient() {
		return a.ProfileID == r.PatientID
	}
	return CanModifyRecord(a, r)
}

// CanModifyRecord gates record updates and deletes: doctors in the
// record's department only. There is no null relaxation here; a record
// always carries a department.
func CanModifyRecord(a Actor, r *model.Record) bool {
	if !a.IsDoctor() {
		return false
	}
	return a.sameDepartment(&r.DepartmentID)
}

// CanListDepartmentMembers gates the doctor/patient rosters of a
// department.
func CanListDepartmentMembers(a Actor, departmentID uuid.UUID) bool {
	if !a.IsDoctor() {
		return false
	}
	return a.sameDepartment(&departmentID)
}

// CanListDirectory gates the unscoped doctor and patient directories.
// Doctors and patients only ever see department rosters; the full
// directory is an administrative view.
func CanListDirectory(a Actor) bool {
	return a.IsAdmin()
}

// CanManageDepartments gates department creation.
func CanManageDepartments(a Actor) bool {
	return a.IsAdmin()
}

// RecordFilter is a scoping predicate over the record collection. The
// store's query layer translates the set fields into WHERE clauses;
// Matches is the same predicate in memory, used to prove list results
// consistent with the single-object checks.
type RecordFilter struct {
	DoctorID     *uuid.UUID
	PatientID    *uuid.UUID
	DepartmentID *uuid.UUID
	// None marks the empty-set filter: the query must yield no rows.
	None bool
}

// Matches reports whether r is inside the filtered set.
func (f RecordFilter) Matches(r *model.Record) bool {
	if f.None {
		return false
	}
	if f.DoctorID != nil && r.DoctorID != *f.DoctorID {
		return false
	}
	if f.PatientID != nil && r.PatientID != *f.PatientID {
		return false
	}
	if f.DepartmentID != nil && r.DepartmentID != *f.DepartmentID {
		return false
	}
	return true
}

// ScopeRecordsMine narrows to records the actor is party to: authored
// records for a doctor, own records for a patient. Authorship is fixed at
// creation, so a doctor who has since moved departments still sees every
// record they wrote.
func ScopeRecordsMine(a Actor) RecordFilter {
	switch {
	case a.IsDoctor():
		id := a.ProfileID
		return RecordFilter{DoctorID: &id}
	case a.IsPatient():
		id := a.ProfileID
		return RecordFilter{PatientID: &id}
	}
	return RecordFilter{None: true}
}

// ScopeRecordsDepartment narrows to the actor's current department feed.
// An actor with no department gets the empty set, not an error.
func ScopeRecordsDepartment(a Actor) RecordFilter {
	if !a.IsDoctor() || a.DepartmentID == nil {
		return RecordFilter{None: true}
	}
	id := *a.DepartmentID
	return RecordFilter{DepartmentID: &id}
}
