package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

type profileRepository struct {
	BaseRepository
}

func NewProfileRepository(base BaseRepository) repository.ProfileRepository {
	return &profileRepository{base}
}

func (r *profileRepository) GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT * FROM doctor_profiles WHERE id = $1`
	var profile model.DoctorProfile
	if err := r.GetDB().GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetDoctorProfileByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT * FROM doctor_profiles WHERE user_id = $1`
	var profile model.DoctorProfile
	if err := r.GetDB().GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetPatientProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT * FROM patient_profiles WHERE id = $1`
	var profile model.PatientProfile
	if err := r.GetDB().GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient profile", err)
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetPatientProfileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT * FROM patient_profiles WHERE user_id = $1`
	var profile model.PatientProfile
	if err := r.GetDB().GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient profile", err)
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) UpdateDoctorDepartment(ctx context.Context, profileID uuid.UUID, departmentID *uuid.UUID) error {
	query := `UPDATE doctor_profiles SET department_id = $1, updated_at = $2 WHERE id = $3`
	result, err := r.GetDB().ExecContext(ctx, query, departmentID, time.Now(), profileID)
	if err != nil {
		return fmt.Errorf("failed to update doctor department: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor profile", nil)
	}
	return nil
}

// UpdatePatient touches the profile's department and, when a new name is
// given, the owning user row. Both writes land in one transaction.
func (r *profileRepository) UpdatePatient(ctx context.Context, profileID uuid.UUID, name *string, departmentID *uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var userID uuid.UUID
		err := tx.GetContext(ctx, &userID, `SELECT user_id FROM patient_profiles WHERE id = $1`, profileID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("patient profile", err)
			}
			return fmt.Errorf("failed to resolve patient profile: %w", err)
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx,
			`UPDATE patient_profiles SET department_id = $1, updated_at = $2 WHERE id = $3`,
			departmentID, now, profileID)
		if err != nil {
			return fmt.Errorf("failed to update patient profile: %w", err)
		}

		if name != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET name = $1, updated_at = $2 WHERE id = $3`,
				*name, now, userID)
			if err != nil {
				return fmt.Errorf("failed to update patient name: %w", err)
			}
		}
		return nil
	})
}

// DeletePatientCascade removes the profile, its records, and the owning
// principal in one transaction so no orphan user survives.
func (r *profileRepository) DeletePatientCascade(ctx context.Context, profileID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var userID uuid.UUID
		err := tx.GetContext(ctx, &userID, `SELECT user_id FROM patient_profiles WHERE id = $1`, profileID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("patient profile", err)
			}
			return fmt.Errorf("failed to resolve patient profile: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE patient_id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to delete patient records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM patient_profiles WHERE id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to delete patient profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (r *profileRepository) ListDoctors(ctx context.Context) ([]*model.DoctorSummary, error) {
	query := `
		SELECT p.id, u.name, u.email, p.department_id
		FROM doctor_profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY u.name
	`
	var doctors []*model.DoctorSummary
	if err := r.GetDB().SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *profileRepository) ListPatients(ctx context.Context) ([]*model.PatientSummary, error) {
	query := `
		SELECT p.id, u.name, u.email, p.department_id
		FROM patient_profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY u.name
	`
	var patients []*model.PatientSummary
	if err := r.GetDB().SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *profileRepository) ListDoctorsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.DoctorSummary, error) {
	query := `
		SELECT p.id, u.name, u.email, p.department_id
		FROM doctor_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.department_id = $1
		ORDER BY u.name
	`
	var doctors []*model.DoctorSummary
	if err := r.GetDB().SelectContext(ctx, &doctors, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *profileRepository) ListPatientsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.PatientSummary, error) {
	query := `
		SELECT p.id, u.name, u.email, p.department_id
		FROM patient_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.department_id = $1
		ORDER BY u.name
	`
	var patients []*model.PatientSummary
	if err := r.GetDB().SelectContext(ctx, &patients, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
