package jwt_test

import (
	"testing"
	"time"

	appjwt "github.com/avencia/auth-service/internal/app/auth/jwt"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/infra/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newUtil(accessTTL, refreshTTL time.Duration) *appjwt.JwtUtilImpl {
	return appjwt.NewJWTUtil(&config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   accessTTL,
		RefreshTokenTTL:  refreshTTL,
		Issuer:           "test",
	})
}

func testUser() model.User {
	return model.User{
		ID:     uuid.New(),
		Email:  "a@x.com",
		Role:   model.RoleUser,
		Active: true,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	util := newUtil(time.Minute, time.Hour)
	u := testUser()

	token, exp, err := util.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := util.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.Subject)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, string(model.RoleUser), claims.Role)
}

func TestSecretsAreDisjoint(t *testing.T) {
	util := newUtil(time.Minute, time.Hour)
	u := testUser()

	access, _, err := util.GenerateAccessToken(u)
	require.NoError(t, err)
	refresh, _, err := util.GenerateRefreshToken(u)
	require.NoError(t, err)

	_, err = util.ValidateRefreshToken(access)
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)

	_, err = util.ValidateAccessToken(refresh)
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestExpiredTokenDistinguishedFromInvalid(t *testing.T) {
	util := newUtil(-time.Minute, time.Hour)

	token, _, err := util.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = util.ValidateAccessToken(token)
	require.ErrorIs(t, err, customErrors.ErrTokenExpired)
}

func TestMalformedToken(t *testing.T) {
	util := newUtil(time.Minute, time.Hour)

	_, err := util.ValidateAccessToken("not-a-jwt")
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestConsecutiveTokensDiffer(t *testing.T) {
	util := newUtil(time.Minute, time.Hour)
	u := testUser()

	t1, _, err := util.GenerateRefreshToken(u)
	require.NoError(t, err)
	t2, _, err := util.GenerateRefreshToken(u)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}
