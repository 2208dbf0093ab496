package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/repository"
	"github.com/medrec-hq/medrec-api/pkg/auth"
	apperrors "github.com/medrec-hq/medrec-api/pkg/errors"
	"github.com/medrec-hq/medrec-api/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrProfileMissing means a doctor or patient principal has no profile
	// row. Registration makes this impossible; if it happens anyway the
	// request fails as a guarded server error, never a panic.
	ErrProfileMissing = errors.New("profile missing for principal")
)

type Service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtSvc      auth.JWTService
	tokens      repository.TokenStore
	hasher      security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository,
	jwtSvc auth.JWTService, tokens repository.TokenStore, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSvc:      jwtSvc,
		tokens:      tokens,
		hasher:      hasher,
	}
}

// Register creates the principal and its role-specific profile in one
// transaction. The profile row is the repository's responsibility so a
// partial failure leaves nothing behind.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, apperrors.Validation("password_confirm", "password_mismatch")
	}
	if !model.ValidRole(req.Role) {
		return nil, apperrors.Validation("role", "invalid_role")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.Validation("password", "password_too_short")
		}
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: hashed,
		Active:       true,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login never reveals whether the email exists or the password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	return s.generateTokens(user)
}

// Logout puts the token on the revocation list. A second logout with the
// same token fails validation below, so the operation is idempotent from
// the client's point of view without ever crashing.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	expiry, err := s.jwtSvc.TokenExpiry(token)
	if err != nil {
		return apperrors.Unauthorized(err)
	}
	if err := s.tokens.Revoke(ctx, claims.TokenID, expiry); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ValidateToken checks signature, expiry and the revocation list.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(errors.New("token revoked"))
	}
	return claims, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown user: %w", err))
	}
	return s.generateTokens(user)
}

// ResolveActor builds the authorization view of the authenticated user:
// role plus the role-specific profile and its department affiliation.
func (s *Service) ResolveActor(ctx context.Context, claims *model.TokenClaims) (authz.Actor, error) {
	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return authz.Actor{}, apperrors.Unauthorized(fmt.Errorf("unknown user: %w", err))
	}
	if !user.Active {
		return authz.Actor{}, apperrors.Unauthorized(errors.New("account disabled"))
	}

	actor := authz.Actor{UserID: user.ID, Role: user.Role}
	switch user.Role {
	case model.RoleDoctor:
		profile, err := s.profileRepo.GetDoctorProfileByUser(ctx, user.ID)
		if err != nil {
			return authz.Actor{}, apperrors.Internal(ErrProfileMissing)
		}
		actor.ProfileID = profile.ID
		actor.DepartmentID = profile.DepartmentID
	case model.RolePatient:
		profile, err := s.profileRepo.GetPatientProfileByUser(ctx, user.ID)
		if err != nil {
			return authz.Actor{}, apperrors.Internal(ErrProfileMissing)
		}
		actor.ProfileID = profile.ID
		actor.DepartmentID = profile.DepartmentID
	}
	return actor, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
