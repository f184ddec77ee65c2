package service

import (
	"context"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service covers the plain user CRUD around the auth core: own profile and
// the admin management surface. Accounts are never hard-deleted, only
// deactivated.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, d dto.UpdateProfileDTO) (model.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, d dto.AdminUpdateUserDTO) (model.User, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
}

func New(ur repo.UserRepo, v *validator.Validate) Service {
	return &userService{userRepo: ur, v: v}
}
