package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	"github.com/avencia/auth-service/internal/adapters/transport/http/middleware"
	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	authErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// authServiceStub resolves tokens from a fixed table; only Validate is
// exercised by the gateway.
type authServiceStub struct {
	identities map[string]model.Identity
}

func (s *authServiceStub) Register(context.Context, dto.RegisterDTO) (model.User, model.TokenPair, error) {
	panic("not used")
}

func (s *authServiceStub) Login(context.Context, dto.LoginDTO) (model.User, model.TokenPair, error) {
	panic("not used")
}

func (s *authServiceStub) Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error) {
	panic("not used")
}

func (s *authServiceStub) Logout(context.Context, uuid.UUID) error {
	panic("not used")
}

func (s *authServiceStub) Validate(_ context.Context, token string) (model.Identity, error) {
	ident, ok := s.identities[token]
	if !ok {
		return model.Identity{}, authErrors.ErrInvalidToken
	}
	return ident, nil
}

func newTestRouter() (*gin.Engine, *authServiceStub) {
	gin.SetMode(gin.TestMode)

	stub := &authServiceStub{identities: map[string]model.Identity{
		"user-token":  {ID: uuid.New(), Email: "a@x.com", Role: model.RoleUser, Active: true},
		"admin-token": {ID: uuid.New(), Email: "admin@x.com", Role: model.RoleAdmin, Active: true},
	}}
	tr := respond.Translator{Log: zap.NewNop()}

	r := gin.New()
	r.GET("/protected", middleware.Auth(stub, tr), func(c *gin.Context) {
		ident, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": ident.Email})
	})
	r.GET("/admin", middleware.Auth(stub, tr), middleware.RequireRoles(tr, model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/broken", middleware.RequireRoles(tr, model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, stub
}

func doGet(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r, _ := newTestRouter()
	for _, h := range []string{"Bearer", "Token user-token", "user-token", "Bearer one two"} {
		w := doGet(r, "/protected", h)
		require.Equalf(t, http.StatusUnauthorized, w.Code, "header %q", h)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/protected", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/protected", "Bearer user-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "a@x.com")
}

func TestAuthSchemeIsCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/protected", "bearer user-token")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/admin", "Bearer user-token")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/admin", "Bearer admin-token")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesWithoutGatewayIsServerError(t *testing.T) {
	r, _ := newTestRouter()
	w := doGet(r, "/broken", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
