package department

import (
	"context"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

type Service struct {
	deptRepo    repository.DepartmentRepository
	profileRepo repository.ProfileRepository
}

func NewService(deptRepo repository.DepartmentRepository, profileRepo repository.ProfileRepository) *Service {
	return &Service{
		deptRepo:    deptRepo,
		profileRepo: profileRepo,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, req *model.CreateDepartmentRequest) (*model.Department, error) {
	if !authz.CanManageDepartments(actor) {
		return nil, apperrors.Forbidden()
	}

	dept := &model.Department{
		Base:           model.Base{ID: uuid.New()},
		Name:           req.Name,
		Location:       req.Location,
		Specialization: req.Specialization,
		Diagnostics:    req.Diagnostics,
	}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// ListDoctors returns the doctor roster of a department. Only a doctor of
// that department may look; absence of the department is reported before
// the permission check, per the documented ordering.
func (s *Service) ListDoctors(ctx context.Context, actor authz.Actor, departmentID uuid.UUID) ([]*model.DoctorSummary, error) {
	if _, err := s.deptRepo.Get(ctx, departmentID); err != nil {
		return nil, err
	}
	if !authz.CanListDepartmentMembers(actor, departmentID) {
		return nil, apperrors.Forbidden()
	}
	return s.profileRepo.ListDoctorsByDepartment(ctx, departmentID)
}

func (s *Service) ListPatients(ctx context.Context, actor authz.Actor, departmentID uuid.UUID) ([]*model.PatientSummary, error) {
	if _, err := s.deptRepo.Get(ctx, departmentID); err != nil {
		return nil, err
	}
	if !authz.CanListDepartmentMembers(actor, departmentID) {
		return nil, apperrors.Forbidden()
	}
	return s.profileRepo.ListPatientsByDepartment(ctx, departmentID)
}
