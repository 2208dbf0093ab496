package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository owns principal rows. Creation is transactional with
	// the role-specific profile so a doctor or patient never exists
	// without one.
	UserRepository interface {
		CreateWithProfile(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, dept *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		List(ctx context.Context) ([]*model.Department, error)
	}

	// ProfileRepository owns the role-specific profile rows and the
	// department rosters built from them.
	ProfileRepository interface {
		GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
		GetDoctorProfileByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
		GetPatientProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
		GetPatientProfileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
		UpdateDoctorDepartment(ctx context.Context, profileID uuid.UUID, departmentID *uuid.UUID) error
		UpdatePatient(ctx context.Context, profileID uuid.UUID, name *string, departmentID *uuid.UUID) error
		DeletePatientCascade(ctx context.Context, profileID uuid.UUID) error
		ListDoctors(ctx context.Context) ([]*model.DoctorSummary, error)
		ListPatients(ctx context.Context) ([]*model.PatientSummary, error)
		ListDoctorsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.DoctorSummary, error)
		ListPatientsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.PatientSummary, error)
	}

	RecordRepository interface {
		Create(ctx context.Context, record *model.Record) error
		Get(ctx context.Context, id uuid.UUID) (*model.Record, error)
		Update(ctx context.Context, record *model.Record) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter authz.RecordFilter) ([]*model.Record, error)
	}

	// TokenStore is the revocation list. Revoke is bounded by the token's
	// own expiry so the list never grows unbounded.
	TokenStore interface {
		Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
	}
)
