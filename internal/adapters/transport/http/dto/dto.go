package dto

import (
	"time"

	"github.com/avencia/auth-service/internal/domain/auth/model"
)

type RegisterDTO struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"omitempty,len=10,numeric"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user vendor"`
}

// LoginDTO accepts the identifier either under "identifier" (email or
// phone) or under the legacy "email" key. The orchestrator tries email
// first, then phone.
type LoginDTO struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateProfileDTO struct {
	Name    string         `json:"name"    validate:"omitempty,max=50"`
	Phone   string         `json:"phone"   validate:"omitempty,len=10,numeric"`
	Address *model.Address `json:"address"`
}

type AdminUpdateUserDTO struct {
	Name   string `json:"name"   validate:"omitempty,max=50"`
	Phone  string `json:"phone"  validate:"omitempty,len=10,numeric"`
	Role   string `json:"role"   validate:"omitempty,oneof=admin user vendor"`
	Active *bool  `json:"active"`
}

// UserResponse is the sanitized account view: no password hash, no
// refresh token.
type UserResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	Role          string        `json:"role"`
	Address       model.Address `json:"address"`
	IsActive      bool          `json:"isActive"`
	EmailVerified bool          `json:"isEmailVerified"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		Address:       u.Address,
		IsActive:      u.Active,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewTokenPairResponse(p model.TokenPair) TokenPairResponse {
	return TokenPairResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}

type IdentityResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func NewIdentityResponse(id model.Identity) IdentityResponse {
	return IdentityResponse{
		ID:       id.ID.String(),
		Email:    id.Email,
		Role:     string(id.Role),
		IsActive: id.Active,
	}
}
