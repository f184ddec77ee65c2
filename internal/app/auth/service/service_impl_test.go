package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	appjwt "github.com/avencia/auth-service/internal/app/auth/jwt"
	appsvc "github.com/avencia/auth-service/internal/app/auth/service"
	authErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userRepoStub struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[uuid.UUID]model.User)}
}

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Email == m.Email {
			return model.User{}, authErrors.ErrAlreadyExists
		}
	}
	u.users[m.ID] = m
	return m, nil
}

func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Email == email {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}

func (u *userRepoStub) GetUserByPhone(_ context.Context, phone string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Phone != "" && v.Phone == phone {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}

func (u *userRepoStub) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}

func (u *userRepoStub) UpdateUser(_ context.Context, m model.User) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[m.ID] = m
	return m, nil
}

func (u *userRepoStub) ListUsers(_ context.Context, page, limit int) ([]model.User, int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.User, 0, len(u.users))
	for _, v := range u.users {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

type sessionStoreStub struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]string
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{tokens: make(map[uuid.UUID]string)}
}

func (s *sessionStoreStub) SetRefreshToken(_ context.Context, id uuid.UUID, token string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[id] = token
	return nil
}

func (s *sessionStoreStub) GetRefreshToken(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[id], nil
}

func (s *sessionStoreStub) ClearRefreshToken(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, id)
	return nil
}

func newSvc() (appsvc.Service, *userRepoStub, *sessionStoreStub) {
	ur := newUserRepoStub()
	sessions := newSessionStoreStub()

	cfg := &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		Issuer:           "test",
		BcryptCost:       bcrypt.MinCost,
	}
	util := appjwt.NewJWTUtil(cfg)
	v := validator.New()

	return appsvc.New(ur, sessions, util, cfg, v), ur, sessions
}

func register(t *testing.T, svc appsvc.Service, email string) (model.User, model.TokenPair) {
	t.Helper()
	user, pair, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name:     "Alice",
		Email:    email,
		Password: "secret1",
		Phone:    "5551234567",
	})
	require.NoError(t, err)
	return user, pair
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	user, pair1 := register(t, svc, "a@x.com")
	require.Equal(t, model.RoleUser, user.Role)
	require.True(t, user.Active)
	require.NotEmpty(t, pair1.AccessToken)
	require.NotEmpty(t, pair1.RefreshToken)

	loggedIn, pair2, err := svc.Login(ctx, dto.LoginDTO{Identifier: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEqual(t, pair1.AccessToken, pair2.AccessToken)
	require.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	register(t, svc, "a@x.com")
	_, _, err := svc.Register(ctx, dto.RegisterDTO{
		Name:     "Bob",
		Email:    "a@x.com",
		Password: "secret2",
	})
	require.ErrorIs(t, err, authErrors.ErrAlreadyExists)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, dto.RegisterDTO{Name: "Bob", Email: "not-an-email", Password: "secret1"})
	require.True(t, authErrors.IsInvalidArgument(err))

	_, _, err = svc.Register(ctx, dto.RegisterDTO{Name: "Bob", Email: "b@x.com", Password: "short", Role: "root"})
	require.True(t, authErrors.IsInvalidArgument(err))
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, ur, _ := newSvc()
	ctx := context.Background()

	user, _ := register(t, svc, "a@x.com")

	// unknown account
	_, _, err := svc.Login(ctx, dto.LoginDTO{Identifier: "nobody@x.com", Password: "secret1"})
	require.ErrorIs(t, err, authErrors.ErrInvalidCredentials)

	// wrong password
	_, _, err = svc.Login(ctx, dto.LoginDTO{Identifier: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, authErrors.ErrInvalidCredentials)

	// deactivated account, correct password
	user.Active = false
	_, err = ur.UpdateUser(ctx, user)
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, dto.LoginDTO{Identifier: "a@x.com", Password: "secret1"})
	require.ErrorIs(t, err, authErrors.ErrInvalidCredentials)
}

func TestLoginByPhone(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	user, _ := register(t, svc, "a@x.com")

	loggedIn, _, err := svc.Login(ctx, dto.LoginDTO{Identifier: "5551234567", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
}

func TestLoginAcceptsLegacyEmailField(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	register(t, svc, "a@x.com")

	_, _, err := svc.Login(ctx, dto.LoginDTO{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, dto.LoginDTO{Password: "secret1"})
	require.True(t, authErrors.IsInvalidArgument(err))
}

func TestRefreshRotationWithReuseDetection(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	_, pair1 := register(t, svc, "a@x.com")

	pair2, err := svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair1.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)

	// the rotated-away token is dead even though it has not expired
	_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair1.RefreshToken})
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)

	// the current one still works
	_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair2.RefreshToken})
	require.NoError(t, err)
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	user, pair := register(t, svc, "a@x.com")

	require.NoError(t, svc.Logout(ctx, user.ID))
	// logout is idempotent
	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err := svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)
}

func TestRefreshInactiveAccount(t *testing.T) {
	svc, ur, _ := newSvc()
	ctx := context.Background()

	user, pair := register(t, svc, "a@x.com")

	user.Active = false
	_, err := ur.UpdateUser(ctx, user)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	_, err := svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: "garbage"})
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	register(t, svc, "a@x.com")

	_, first, err := svc.Login(ctx, dto.LoginDTO{Identifier: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, dto.LoginDTO{Identifier: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: first.RefreshToken})
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)

	_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: second.RefreshToken})
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	svc, ur, _ := newSvc()
	ctx := context.Background()

	user, pair := register(t, svc, "a@x.com")

	ident, err := svc.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, ident.ID)
	require.Equal(t, "a@x.com", ident.Email)
	require.Equal(t, model.RoleUser, ident.Role)
	require.True(t, ident.Active)

	// liveness is read fresh: deactivation kills a still-unexpired token
	user.Active = false
	_, err = ur.UpdateUser(ctx, user)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)
}

func TestValidateRejectsRefreshToken(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	_, pair := register(t, svc, "a@x.com")

	_, err := svc.Validate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, authErrors.ErrInvalidToken)
}
