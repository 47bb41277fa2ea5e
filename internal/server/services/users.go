package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/server/auth"
	"github.com/studybuddy-app/studybuddy/internal/server/config"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
	"github.com/studybuddy-app/studybuddy/internal/server/repositories/users"
)

const minPasswordLength = 8

const defaultRole = "student"

// ProfilePatch lists the account fields a user may change. Nil fields are
// left as they are.
type ProfilePatch struct {
	Email    *string
	Username *string
	FullName *string
	Password *string
}

type UserService struct {
	repo                users.Repository
	jwtSecret           []byte
	tokenValidityPeriod time.Duration
	bcryptCost          int
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                repo,
		jwtSecret:           []byte(cfg.SecretKey),
		tokenValidityPeriod: cfg.TokenValidityPeriod,
		bcryptCost:          cfg.BcryptCost,
	}
}

func (s *UserService) Register(ctx context.Context, email, username, fullName, password string) (*models.User, string, error) {

	if email == "" || username == "" {
		return nil, "", fmt.Errorf("%w: email and username are required", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: hash,
		Role:           defaultRole,
	})
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityPeriod)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {

	user, err := s.repo.GetByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(password, user.HashedPassword) {
		return nil, "", common.ErrUnauthorized
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("error updating last login: %w", err)
	}
	now := time.Now()
	user.LastLogin = &now

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityPeriod)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.User, error) {

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.HashedPassword = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return updated, nil
}
