package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
	"github.com/medrec-hq/medrec-api/pkg/metrics"
)

type Service struct {
	profileRepo repository.ProfileRepository
	deptRepo    repository.DepartmentRepository
	metrics     *metrics.Metrics
}

func NewService(profileRepo repository.ProfileRepository, deptRepo repository.DepartmentRepository, m *metrics.Metrics) *Service {
	return &Service{
		profileRepo: profileRepo,
		deptRepo:    deptRepo,
		metrics:     m,
	}
}

func (s *Service) decision(action string, allowed bool) {
	if s.metrics == nil {
		return
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	s.metrics.AuthzDecisions.WithLabelValues(action, outcome).Inc()
}

// GetOwnDoctorProfile returns the requesting doctor's profile.
func (s *Service) GetOwnDoctorProfile(ctx context.Context, actor authz.Actor) (*model.DoctorProfile, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden()
	}
	return s.profileRepo.GetDoctorProfile(ctx, actor.ProfileID)
}

// UpdateOwnDepartment moves the requesting doctor to a new department (or
// clears it). The change affects subsequent authorization checks only;
// records authored earlier keep their department.
func (s *Service) UpdateOwnDepartment(ctx context.Context, actor authz.Actor, departmentID *uuid.UUID) error {
	if !actor.IsDoctor() {
		return apperrors.Forbidden()
	}
	if departmentID != nil {
		if _, err := s.deptRepo.Get(ctx, *departmentID); err != nil {
			return err
		}
	}
	return s.profileRepo.UpdateDoctorDepartment(ctx, actor.ProfileID, departmentID)
}

// ListDoctors returns the full doctor directory across every department.
// The unscoped view is admin-only; doctors browse their own department's
// roster through the department endpoints instead.
func (s *Service) ListDoctors(ctx context.Context, actor authz.Actor) ([]*model.DoctorSummary, error) {
	allowed := authz.CanListDirectory(actor)
	s.decision("list_doctors", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}
	return s.profileRepo.ListDoctors(ctx)
}

// ListPatients returns the full patient directory, admin-only like
// ListDoctors.
func (s *Service) ListPatients(ctx context.Context, actor authz.Actor) ([]*model.PatientSummary, error) {
	allowed := authz.CanListDirectory(actor)
	s.decision("list_patients", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}
	return s.profileRepo.ListPatients(ctx)
}

// GetPatientProfile fetches then authorizes: a missing row is NotFound, an
// existing row the actor may not see is Forbidden.
func (s *Service) GetPatientProfile(ctx context.Context, actor authz.Actor, id uuid.UUID) (*model.PatientProfile, error) {
	profile, err := s.profileRepo.GetPatientProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanViewPatientProfile(actor, profile)
	s.decision("view_patient_profile", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}
	return profile, nil
}

// UpdatePatientProfile is doctor-initiated only. As a side effect the
// patient's department becomes the acting doctor's department; the caller
// never chooses it.
func (s *Service) UpdatePatientProfile(ctx context.Context, actor authz.Actor, id uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.PatientProfile, error) {
	profile, err := s.profileRepo.GetPatientProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanModifyPatientProfile(actor, profile)
	s.decision("update_patient_profile", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}

	if err := s.profileRepo.UpdatePatient(ctx, id, req.Name, actor.DepartmentID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetPatientProfile(ctx, id)
}

// DeletePatientProfile removes the profile together with its principal,
// atomically.
func (s *Service) DeletePatientProfile(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	profile, err := s.profileRepo.GetPatientProfile(ctx, id)
	if err != nil {
		return err
	}

	allowed := authz.CanModifyPatientProfile(actor, profile)
	s.decision("delete_patient_profile", allowed)
	if !allowed {
		return apperrors.Forbidden()
	}
	return s.profileRepo.DeletePatientCascade(ctx, id)
}
