package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

type departmentRepository struct {
	BaseRepository
}

func NewDepartmentRepository(base BaseRepository) repository.DepartmentRepository {
	return &departmentRepository{base}
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	query := `
		INSERT INTO departments (id, name, location, specialization, diagnostics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = dept.CreatedAt

	_, err := r.GetDB().ExecContext(ctx, query,
		dept.ID,
		dept.Name,
		dept.Location,
		dept.Specialization,
		dept.Diagnostics,
		dept.CreatedAt,
		dept.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `SELECT * FROM departments WHERE id = $1`
	var dept model.Department
	err := r.GetDB().GetContext(ctx, &dept, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("department", err)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	query := `SELECT * FROM departments ORDER BY name`
	var depts []*model.Department
	if err := r.GetDB().SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}
