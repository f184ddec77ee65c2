package service

import (
	"context"
	"errors"
	"strings"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/jwt"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/domain/auth/repo"
	"github.com/avencia/auth-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repo.UserRepo
	sessions repo.SessionStore
	jwtUtil  jwt.JWTUtil
	cfg      *config.Config
	v        *validator.Validate
}

func (a *authService) Register(ctx context.Context, d dto.RegisterDTO) (model.User, model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.User{}, model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	role := model.RoleUser
	if d.Role != "" {
		role = model.Role(d.Role)
		if !model.ValidRole(role) {
			return model.User{}, model.TokenPair{}, customErrors.NewInvalidArgument("unknown role")
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(d.Password), a.cfg.BcryptCost)
	if err != nil {
		return model.User{}, model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:        d.Phone,
		PasswordHash: string(passwordHash),
		Role:         role,
		Active:       true,
	}

	created, err := a.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, model.TokenPair{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	pair, err := a.issuePair(ctx, created)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	return created, pair, nil
}

func (a *authService) Login(ctx context.Context, d dto.LoginDTO) (model.User, model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.User{}, model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	identifier := d.Identifier
	if identifier == "" {
		identifier = d.Email
	}
	if identifier == "" {
		return model.User{}, model.TokenPair{}, customErrors.NewInvalidArgument("identifier is required")
	}

	user, err := a.lookup(ctx, identifier)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.User{}, model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	if !user.Active {
		return model.User{}, model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(d.Password)); err != nil {
		return model.User{}, model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	// Overwrites any previously stored refresh token: a second login from
	// elsewhere invalidates the first session.
	pair, err := a.issuePair(ctx, user)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	return user, pair, nil
}

// lookup resolves the login identifier, email first, then phone.
func (a *authService) lookup(ctx context.Context, identifier string) (model.User, error) {
	user, err := a.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	if err == nil || !errors.Is(err, customErrors.ErrNotFound) {
		return user, err
	}
	return a.userRepo.GetUserByPhone(ctx, identifier)
}

func (a *authService) Refresh(ctx context.Context, d dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(d.RefreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	if !user.Active {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	stored, err := a.sessions.GetRefreshToken(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}
	// Reuse detection: a rotated-away token is rejected even when its
	// signature and expiry are still good.
	if stored == "" || stored != d.RefreshToken {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	return a.issuePair(ctx, user)
}

func (a *authService) Logout(ctx context.Context, accountID uuid.UUID) error {
	if err := a.sessions.ClearRefreshToken(ctx, accountID); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}
	return nil
}

func (a *authService) Validate(ctx context.Context, accessToken string) (model.Identity, error) {
	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}

	// Liveness is read fresh from the account record on every request;
	// there is no session cache.
	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Identity{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.Identity{}, customErrors.WrapInternal(err, "Validate")
	}

	if !user.Active {
		return model.Identity{}, customErrors.ErrInvalidToken
	}

	return model.Identity{
		ID:     user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Active: user.Active,
	}, nil
}

func (a *authService) issuePair(ctx context.Context, user model.User) (model.TokenPair, error) {
	at, atExp, err := a.jwtUtil.GenerateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, err := a.jwtUtil.GenerateRefreshToken(user)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	if err := a.sessions.SetRefreshToken(ctx, user.ID, rt, rtExp); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "StoreRefreshToken")
	}

	return model.TokenPair{
		AccessToken:      at,
		RefreshToken:     rt,
		AccessExpiresAt:  atExp,
		RefreshExpiresAt: rtExp,
	}, nil
}
