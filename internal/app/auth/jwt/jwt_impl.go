package jwt

import (
	"errors"
	"time"

	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	jwt2 "github.com/avencia/auth-service/internal/domain/auth/jwt"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

func NewJWTUtil(cfg *config.Config) *JwtUtilImpl {
	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		issuer:        cfg.Issuer,
	}
}

func (j *JwtUtilImpl) GenerateAccessToken(u model.User) (string, time.Time, error) {
	return j.sign(u, j.accessSecret, j.accessTTL)
}

func (j *JwtUtilImpl) GenerateRefreshToken(u model.User) (string, time.Time, error) {
	return j.sign(u, j.refreshSecret, j.refreshTTL)
}

func (j *JwtUtilImpl) sign(u model.User, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()

	claims := jwt2.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    j.issuer,
			ID:        uuid.NewString(),
		},
		Email: u.Email,
		Role:  string(u.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (jwt2.TokenClaims, error) {
	return j.validate(raw, j.accessSecret)
}

func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (jwt2.TokenClaims, error) {
	return j.validate(raw, j.refreshSecret)
}

func (j *JwtUtilImpl) validate(raw string, secret []byte) (jwt2.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt2.TokenClaims{}, customErrors.ErrTokenExpired
		}
		return jwt2.TokenClaims{}, customErrors.ErrInvalidToken
	}

	if !token.Valid {
		return jwt2.TokenClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.TokenClaims)
	if !ok {
		return jwt2.TokenClaims{}, customErrors.WrapInternal(
			errors.New("claims not TokenClaims"), "validate",
		)
	}

	return *claims, nil
}
