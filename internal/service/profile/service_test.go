package profile

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

type fakeProfileRepo struct {
	doctors  map[uuid.UUID]*model.DoctorProfile
	patients map[uuid.UUID]*model.PatientProfile
	// usersDeleted tracks cascading principal removal.
	usersDeleted []uuid.UUID
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		doctors:  make(map[uuid.UUID]*model.DoctorProfile),
		patients: make(map[uuid.UUID]*model.PatientProfile),
	}
}

func (f *fakeProfileRepo) GetDoctorProfile(_ context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	p, ok := f.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor profile", nil)
	}
	return p, nil
}

func (f *fakeProfileRepo) GetDoctorProfileByUser(_ context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	for _, p := range f.doctors {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("doctor profile", nil)
}

func (f *fakeProfileRepo) GetPatientProfile(_ context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient profile", nil)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) GetPatientProfileByUser(_ context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	for _, p := range f.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("patient profile", nil)
}

func (f *fakeProfileRepo) UpdateDoctorDepartment(_ context.Context, profileID uuid.UUID, departmentID *uuid.UUID) error {
	p, ok := f.doctors[profileID]
	if !ok {
		return apperrors.NotFound("doctor profile", nil)
	}
	p.DepartmentID = departmentID
	return nil
}

func (f *fakeProfileRepo) UpdatePatient(_ context.Context, profileID uuid.UUID, name *string, departmentID *uuid.UUID) error {
	p, ok := f.patients[profileID]
	if !ok {
		return apperrors.NotFound("patient profile", nil)
	}
	p.DepartmentID = departmentID
	return nil
}

func (f *fakeProfileRepo) DeletePatientCascade(_ context.Context, profileID uuid.UUID) error {
	p, ok := f.patients[profileID]
	if !ok {
		return apperrors.NotFound("patient profile", nil)
	}
	f.usersDeleted = append(f.usersDeleted, p.UserID)
	delete(f.patients, profileID)
	return nil
}

func (f *fakeProfileRepo) ListDoctors(_ context.Context) ([]*model.DoctorSummary, error) {
	var out []*model.DoctorSummary
	for _, p := range f.doctors {
		out = append(out, &model.DoctorSummary{ID: p.ID, DepartmentID: p.DepartmentID})
	}
	return out, nil
}

func (f *fakeProfileRepo) ListPatients(_ context.Context) ([]*model.PatientSummary, error) {
	var out []*model.PatientSummary
	for _, p := range f.patients {
		out = append(out, &model.PatientSummary{ID: p.ID, DepartmentID: p.DepartmentID})
	}
	return out, nil
}

func (f *fakeProfileRepo) ListDoctorsByDepartment(_ context.Context, _ uuid.UUID) ([]*model.DoctorSummary, error) {
	return nil, nil
}

func (f *fakeProfileRepo) ListPatientsByDepartment(_ context.Context, _ uuid.UUID) ([]*model.PatientSummary, error) {
	return nil, nil
}

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

func (f *fakeDeptRepo) List(_ context.Context) ([]*model.Department, error) { return nil, nil }

func (f *fakeProfileRepo) addPatient(dept *uuid.UUID) *model.PatientProfile {
	p := &model.PatientProfile{
		Base:         model.Base{ID: uuid.New()},
		UserID:       uuid.New(),
		DepartmentID: dept,
	}
	f.patients[p.ID] = p
	return p
}

func (f *fakeProfileRepo) addDoctor(dept *uuid.UUID) *model.DoctorProfile {
	p := &model.DoctorProfile{
		Base:         model.Base{ID: uuid.New()},
		UserID:       uuid.New(),
		DepartmentID: dept,
	}
	f.doctors[p.ID] = p
	return p
}

func actorFor(role string, profileID uuid.UUID, dept *uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: role, ProfileID: profileID, DepartmentID: dept}
}

func TestDoctorUpdateSetsPatientDepartment(t *testing.T) {
	dept := uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(dept), nil)

	docProfile := profiles.addDoctor(&dept)
	patient := profiles.addPatient(nil) // unassigned, adoptable

	actor := actorFor(model.RoleDoctor, docProfile.ID, &dept)
	updated, err := svc.UpdatePatientProfile(context.Background(), actor, patient.ID, &model.UpdatePatientProfileRequest{})
	require.NoError(t, err)
	require.NotNil(t, updated.DepartmentID)
	assert.Equal(t, dept, *updated.DepartmentID)
}

func TestPatientCannotChangeOwnDepartment(t *testing.T) {
	dept := uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(dept), nil)

	patient := profiles.addPatient(nil)
	actor := actorFor(model.RolePatient, patient.ID, nil)

	_, err := svc.UpdatePatientProfile(context.Background(), actor, patient.ID, &model.UpdatePatientProfileRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	stored, _ := profiles.GetPatientProfile(context.Background(), patient.ID)
	assert.Nil(t, stored.DepartmentID)
}

func TestCrossDepartmentPatientUpdateForbidden(t *testing.T) {
	cardio, neuro := uuid.New(), uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(cardio, neuro), nil)

	docProfile := profiles.addDoctor(&cardio)
	patient := profiles.addPatient(&neuro)

	actor := actorFor(model.RoleDoctor, docProfile.ID, &cardio)
	_, err := svc.UpdatePatientProfile(context.Background(), actor, patient.ID, &model.UpdatePatientProfileRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestPatientViewsOwnProfile(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(), nil)

	patient := profiles.addPatient(nil)
	other := profiles.addPatient(nil)

	actor := actorFor(model.RolePatient, patient.ID, nil)

	got, err := svc.GetPatientProfile(context.Background(), actor, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)

	_, err = svc.GetPatientProfile(context.Background(), actor, other.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestDeletePatientCascadesToPrincipal(t *testing.T) {
	dept := uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(dept), nil)

	docProfile := profiles.addDoctor(&dept)
	patient := profiles.addPatient(&dept)

	actor := actorFor(model.RoleDoctor, docProfile.ID, &dept)
	require.NoError(t, svc.DeletePatientProfile(context.Background(), actor, patient.ID))

	assert.Equal(t, []uuid.UUID{patient.UserID}, profiles.usersDeleted)
	_, err := profiles.GetPatientProfile(context.Background(), patient.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateOwnDepartmentValidatesTarget(t *testing.T) {
	dept := uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(dept), nil)

	docProfile := profiles.addDoctor(nil)
	actor := actorFor(model.RoleDoctor, docProfile.ID, nil)

	// Unknown department is rejected.
	unknown := uuid.New()
	err := svc.UpdateOwnDepartment(context.Background(), actor, &unknown)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	// A valid department sticks.
	require.NoError(t, svc.UpdateOwnDepartment(context.Background(), actor, &dept))
	stored, _ := profiles.GetDoctorProfile(context.Background(), docProfile.ID)
	require.NotNil(t, stored.DepartmentID)
	assert.Equal(t, dept, *stored.DepartmentID)

	// Clearing the affiliation is allowed too.
	require.NoError(t, svc.UpdateOwnDepartment(context.Background(), actor, nil))
	stored, _ = profiles.GetDoctorProfile(context.Background(), docProfile.ID)
	assert.Nil(t, stored.DepartmentID)
}

func TestDirectoryListingsAdminOnly(t *testing.T) {
	cardio, neuro := uuid.New(), uuid.New()
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(cardio, neuro), nil)

	docProfile := profiles.addDoctor(&cardio)
	profiles.addDoctor(&neuro)
	profiles.addPatient(&cardio)
	profiles.addPatient(nil)

	admin := actorFor(model.RoleAdmin, uuid.Nil, nil)

	// The admin view spans every department, affiliated or not.
	doctors, err := svc.ListDoctors(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)

	patients, err := svc.ListPatients(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, patients, 2)

	// Doctors and patients only get department rosters, never the directory.
	doctor := actorFor(model.RoleDoctor, docProfile.ID, &cardio)
	_, err = svc.ListDoctors(context.Background(), doctor)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	patient := actorFor(model.RolePatient, uuid.New(), nil)
	_, err = svc.ListPatients(context.Background(), patient)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestOwnDoctorProfileRequiresDoctor(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewService(profiles, newFakeDeptRepo(), nil)

	patient := profiles.addPatient(nil)
	actor := actorFor(model.RolePatient, patient.ID, nil)

	_, err := svc.GetOwnDoctorProfile(context.Background(), actor)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	err = svc.UpdateOwnDepartment(context.Background(), actor, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
