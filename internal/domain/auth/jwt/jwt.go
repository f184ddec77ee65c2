package jwt

import (
	"time"

	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload carried by both token kinds: account id in
// Subject, plus email and role. No revocation state lives in the token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWTUtil signs and verifies the two token kinds with disjoint secrets.
// Validation fails with errors.ErrTokenExpired when the signature is good
// but the expiry has elapsed, and errors.ErrInvalidToken for everything
// else (malformed, wrong secret, wrong algorithm).
type JWTUtil interface {
	GenerateAccessToken(u model.User) (token string, exp time.Time, err error)
	GenerateRefreshToken(u model.User) (token string, exp time.Time, err error)
	ValidateAccessToken(token string) (TokenClaims, error)
	ValidateRefreshToken(token string) (TokenClaims, error)
}
