package users

import (
	"context"

	"github.com/studybuddy-app/studybuddy/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}
