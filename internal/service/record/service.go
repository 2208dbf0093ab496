package record

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
	recordRepo  repository.RecordRepository
	profileRepo repository.ProfileRepository
	metrics     *metrics.Metrics
}

func NewService(recordRepo repository.RecordRepository, profileRepo repository.ProfileRepository, m *metrics.Metrics) *Service {
	return &Service{
		recordRepo:  recordRepo,
		profileRepo: profileRepo,
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

// Create authors a new record. The doctor and department columns come from
// the authenticated actor, never from the request, and the department-match
// invariant is checked before anything is persisted.
func (s *Service) Create(ctx context.Context, actor authz.Actor, req *model.CreateRecordRequest) (*model.Record, error) {
	if !actor.IsDoctor() {
		s.decision("create_record", false)
		return nil, apperrors.Forbidden()
	}

	patient, err := s.profileRepo.GetPatientProfile(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanCreateRecord(actor, patient)
	s.decision("create_record", allowed)
	if !allowed {
		return nil, apperrors.Validation("department", "department_mismatch")
	}

	record := &model.Record{
		Base:         model.Base{ID: uuid.New()},
		PatientID:    patient.ID,
		DoctorID:     actor.ProfileID,
		DepartmentID: *actor.DepartmentID,
		Diagnostics:  req.Diagnostics,
		Observations: req.Observations,
		Treatments:   req.Treatments,
		Misc:         req.Misc,
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*model.Record, error) {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanViewRecord(actor, record)
	s.decision("view_record", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}
	return record, nil
}

// Update rewrites the clinical text fields of a record the actor may
// modify. Ownership fields are never touched.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req *model.UpdateRecordRequest) (*model.Record, error) {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanModifyRecord(actor, record)
	s.decision("update_record", allowed)
	if !allowed {
		return nil, apperrors.Forbidden()
	}

	if req.Diagnostics != nil {
		record.Diagnostics = *req.Diagnostics
	}
	if req.Observations != nil {
		record.Observations = *req.Observations
	}
	if req.Treatments != nil {
		record.Treatments = *req.Treatments
	}
	if req.Misc != nil {
		record.Misc = req.Misc
	}

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	allowed := authz.CanModifyRecord(actor, record)
	s.decision("delete_record", allowed)
	if !allowed {
		return apperrors.Forbidden()
	}
	return s.recordRepo.Delete(ctx, id)
}

// List applies the scoping filter for the requested scope. An actor whose
// filter is the empty set gets an empty list, not an error.
func (s *Service) List(ctx context.Context, actor authz.Actor, scope string) ([]*model.Record, error) {
	var filter authz.RecordFilter
	switch scope {
	case model.RecordScopeDepartment:
		filter = authz.ScopeRecordsDepartment(actor)
	case model.RecordScopeMine, "":
		filter = authz.ScopeRecordsMine(actor)
	default:
		return nil, apperrors.BadRequest("unknown scope", nil)
	}
	return s.recordRepo.List(ctx, filter)
}
