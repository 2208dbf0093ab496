package department

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

type fakeDeptRepo struct {
	depts map[uuid.UUID]*model.Department
}

func newFakeDeptRepo(ids ...uuid.UUID) *fakeDeptRepo {
	f := &fakeDeptRepo{depts: make(map[uuid.UUID]*model.Department)}
	for _, id := range ids {
		f.depts[id] = &model.Department{Base: model.Base{ID: id}, Name: "dept"}
	}
	return f
}

func (f *fakeDeptRepo) Create(_ context.Context, d *model.Department) error {
	f.depts[d.ID] = d
	return nil
}

func (f *fakeDeptRepo) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	d, ok := f.depts[id]
	if !ok {
		return nil, apperrors.NotFound("department", nil)
	}
	return d, nil
}

func (f *fakeDeptRepo) List(_ context.Context) ([]*model.Department, error) {
	var out []*model.Department
	for _, d := range f.depts {
		out = append(out, d)
	}
	return out, nil
}

type fakeRosterRepo struct {
	doctors  map[uuid.UUID][]*model.DoctorSummary
	patients map[uuid.UUID][]*model.PatientSummary
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{
		doctors:  make(map[uuid.UUID][]*model.DoctorSummary),
		patients: make(map[uuid.UUID][]*model.PatientSummary),
	}
}

func (f *fakeRosterRepo) GetDoctorProfile(_ context.Context, _ uuid.UUID) (*model.DoctorProfile, error) {
	return nil, apperrors.NotFound("doctor profile", nil)
}

func (f *fakeRosterRepo) GetDoctorProfileByUser(_ context.Context, _ uuid.UUID) (*model.DoctorProfile, error) {
	return nil, apperrors.NotFound("doctor profile", nil)
}

func (f *fakeRosterRepo) GetPatientProfile(_ context.Context, _ uuid.UUID) (*model.PatientProfile, error) {
	return nil, apperrors.NotFound("patient profile", nil)
}

func (f *fakeRosterRepo) GetPatientProfileByUser(_ context.Context, _ uuid.UUID) (*model.PatientProfile, error) {
	return nil, apperrors.NotFound("patient profile", nil)
}

func (f *fakeRosterRepo) UpdateDoctorDepartment(_ context.Context, _ uuid.UUID, _ *uuid.UUID) error {
	return nil
}

func (f *fakeRosterRepo) UpdatePatient(_ context.Context, _ uuid.UUID, _ *string, _ *uuid.UUID) error {
	return nil
}

func (f *fakeRosterRepo) DeletePatientCascade(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeRosterRepo) ListDoctors(_ context.Context) ([]*model.DoctorSummary, error) {
	return nil, nil
}

func (f *fakeRosterRepo) ListPatients(_ context.Context) ([]*model.PatientSummary, error) {
	return nil, nil
}

func (f *fakeRosterRepo) ListDoctorsByDepartment(_ context.Context, id uuid.UUID) ([]*model.DoctorSummary, error) {
	return f.doctors[id], nil
}

func (f *fakeRosterRepo) ListPatientsByDepartment(_ context.Context, id uuid.UUID) ([]*model.PatientSummary, error) {
	return f.patients[id], nil
}

func doctorActor(dept *uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: model.RoleDoctor, ProfileID: uuid.New(), DepartmentID: dept}
}

func TestCreateDepartmentAdminOnly(t *testing.T) {
	depts := newFakeDeptRepo()
	svc := NewService(depts, newFakeRosterRepo())

	req := &model.CreateDepartmentRequest{Name: "Cardiology", Location: "Wing B", Specialization: "cardio"}

	admin := authz.Actor{UserID: uuid.New(), Role: model.RoleAdmin}
	dept, err := svc.Create(context.Background(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", dept.Name)
	assert.Len(t, depts.depts, 1)

	_, err = svc.Create(context.Background(), doctorActor(nil), req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestListDoctorsScopedToOwnDepartment(t *testing.T) {
	cardio, neuro := uuid.New(), uuid.New()
	depts := newFakeDeptRepo(cardio, neuro)
	roster := newFakeRosterRepo()
	roster.doctors[cardio] = []*model.DoctorSummary{{ID: uuid.New(), Name: "Dr. A"}}
	svc := NewService(depts, roster)

	member := doctorActor(&cardio)
	doctors, err := svc.ListDoctors(context.Background(), member, cardio)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	// Another department's roster is off limits.
	_, err = svc.ListDoctors(context.Background(), member, neuro)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	// The department must exist before permission is considered.
	_, err = svc.ListDoctors(context.Background(), member, uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListPatientsDeniedForPatients(t *testing.T) {
	cardio := uuid.New()
	svc := NewService(newFakeDeptRepo(cardio), newFakeRosterRepo())

	patient := authz.Actor{UserID: uuid.New(), Role: model.RolePatient, ProfileID: uuid.New(), DepartmentID: &cardio}
	_, err := svc.ListPatients(context.Background(), patient, cardio)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
