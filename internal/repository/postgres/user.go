package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
)

const pqUniqueViolation = "23505"

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

// CreateWithProfile inserts the user and, for doctors and patients, the
// matching profile row in one transaction. Either both rows land or
// neither does.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (id, email, name, role, password_hash, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Email,
			user.Name,
			user.Role,
			user.PasswordHash,
			user.Active,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
				return apperrors.Validation("email", "email_taken")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		var profileTable string
		switch user.Role {
		case model.RoleDoctor:
			profileTable = "doctor_profiles"
		case model.RolePatient:
			profileTable = "patient_profiles"
		default:
			return nil
		}

		profileQuery := fmt.Sprintf(`
			INSERT INTO %s (id, user_id, department_id, created_at, updated_at)
			VALUES ($1, $2, NULL, $3, $4)
		`, profileTable)
		if _, err := tx.ExecContext(ctx, profileQuery, uuid.New(), user.ID, now, now); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var user model.User
	err := r.GetDB().GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`
	var user model.User
	err := r.GetDB().GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}
