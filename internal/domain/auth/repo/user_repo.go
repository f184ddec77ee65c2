package repo

import (
	"context"

	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByPhone(ctx context.Context, phone string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	UpdateUser(ctx context.Context, u model.User) (model.User, error)

	// ListUsers returns one page of accounts plus the total count.
	ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error)
}
