package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/config"
	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/repository"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// AuthService coordinates registration, login and account maintenance.
type AuthService struct {
	users        repository.UserRepository
	tokenMgr     *auth.TokenManager
	bcryptCost   int
	defaultImage string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:        users,
		tokenMgr:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		bcryptCost:   cfg.Auth.BcryptCost,
		defaultImage: cfg.Uploads.DefaultImage,
	}
}

// Register creates a new customer account. The role is always customer;
// mechanic and admin accounts are provisioned out of band.
func (s *AuthService) Register(ctx context.Context, name, email, password, profileImage string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewEmailTaken()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if profileImage == "" {
		profileImage = s.defaultImage
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		ProfileImage: profileImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// constraint on email has the final word.
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewEmailTaken()
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password both return the same generic failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateProfile updates display name and, when provided, the profile image.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, profileImage string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteAccount removes the user record. Outstanding session tokens die on
// the next request when the middleware fails to re-fetch the account.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
