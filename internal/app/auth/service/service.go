package service

import (
	"context"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	"github.com/avencia/auth-service/internal/domain/auth/jwt"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/domain/auth/repo"
	"github.com/avencia/auth-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service orchestrates credential verification, token issuance, rotation
// and revocation. It never writes HTTP responses; failures surface as the
// sentinel errors from the domain errors package.
type Service interface {
	Register(ctx context.Context, d dto.RegisterDTO) (model.User, model.TokenPair, error)
	Login(ctx context.Context, d dto.LoginDTO) (model.User, model.TokenPair, error)
	Refresh(ctx context.Context, d dto.RefreshDTO) (model.TokenPair, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
	Validate(ctx context.Context, accessToken string) (model.Identity, error)
}

func New(
	ur repo.UserRepo,
	sessions repo.SessionStore,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, sessions: sessions, jwtUtil: jm, cfg: cfg, v: v,
	}
}
