package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

type recordRepository struct {
	BaseRepository
}

func NewRecordRepository(base BaseRepository) repository.RecordRepository {
	return &recordRepository{base}
}

func (r *recordRepository) Create(ctx context.Context, record *model.Record) (err error) {
	defer func(start time.Time) { r.observe("record_create", start, err) }(time.Now())

	query := `
		INSERT INTO records (id, patient_id, doctor_id, department_id, diagnostics, observations, treatments, misc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	_, err = r.GetDB().ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.DoctorID,
		record.DepartmentID,
		record.Diagnostics,
		record.Observations,
		record.Treatments,
		record.Misc,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *recordRepository) Get(ctx context.Context, id uuid.UUID) (rec *model.Record, err error) {
	defer func(start time.Time) { r.observe("record_get", start, err) }(time.Now())

	query := `SELECT * FROM records WHERE id = $1`
	var record model.Record
	if err := r.GetDB().GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("record", err)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

// Update writes the clinical text fields only. Ownership columns are
// immutable after creation.
func (r *recordRepository) Update(ctx context.Context, record *model.Record) (err error) {
	defer func(start time.Time) { r.observe("record_update", start, err) }(time.Now())

	query := `
		UPDATE records
		SET diagnostics = $1, observations = $2, treatments = $3, misc = $4, updated_at = $5
		WHERE id = $6
	`
	record.UpdatedAt = time.Now()
	result, err := r.GetDB().ExecContext(ctx, query,
		record.Diagnostics,
		record.Observations,
		record.Treatments,
		record.Misc,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("record", nil)
	}
	return nil
}

func (r *recordRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { r.observe("record_delete", start, err) }(time.Now())

	result, err := r.GetDB().ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("record", nil)
	}
	return nil
}

// List translates an authorization scoping filter into WHERE clauses. The
// filter is produced by the authz engine; this layer only applies it.
func (r *recordRepository) List(ctx context.Context, filter authz.RecordFilter) (records []*model.Record, err error) {
	defer func(start time.Time) { r.observe("record_list", start, err) }(time.Now())

	if filter.None {
		return []*model.Record{}, nil
	}

	query := `SELECT * FROM records WHERE 1=1`
	args := []interface{}{}
	arg := 1

	if filter.DoctorID != nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", arg)
		args = append(args, *filter.DoctorID)
		arg++
	}
	if filter.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", arg)
		args = append(args, *filter.PatientID)
		arg++
	}
	if filter.DepartmentID != nil {
		query += fmt.Sprintf(" AND department_id = $%d", arg)
		args = append(args, *filter.DepartmentID)
		arg++
	}
	query += " ORDER BY created_at DESC"

	if err := r.GetDB().SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}
