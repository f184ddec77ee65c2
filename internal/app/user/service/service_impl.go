package service

import (
	"context"
	"errors"
	"strings"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	// MaxLimit caps the page size any caller may request.
	MaxLimit = 100
)

type userService struct {
	userRepo repo.UserRepo
	v        *validator.Validate
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.getUser(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, d dto.UpdateProfileDTO) (model.User, error) {
	if err := s.v.Struct(d); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if d.Name != "" {
		user.Name = strings.TrimSpace(d.Name)
	}
	if d.Phone != "" {
		user.Phone = d.Phone
	}
	if d.Address != nil {
		user.Address = *d.Address
	}

	updated, err := s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	return updated, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	users, total, err := s.userRepo.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListUsers")
	}
	return users, total, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.getUser(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, d dto.AdminUpdateUserDTO) (model.User, error) {
	if err := s.v.Struct(d); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if d.Name != "" {
		user.Name = strings.TrimSpace(d.Name)
	}
	if d.Phone != "" {
		user.Phone = d.Phone
	}
	if d.Role != "" {
		role := model.Role(d.Role)
		if !model.ValidRole(role) {
			return model.User{}, customErrors.NewInvalidArgument("unknown role")
		}
		user.Role = role
	}
	if d.Active != nil {
		user.Active = *d.Active
	}

	updated, err := s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateUser")
	}
	return updated, nil
}

func (s *userService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	user.Active = false
	if _, err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "DeactivateUser")
	}
	return nil
}

func (s *userService) getUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.ErrNotFound
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}
	return user, nil
}
