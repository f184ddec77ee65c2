package middleware

import (
	"strings"

	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	authsvc "github.com/avencia/auth-service/internal/app/auth/service"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Auth is the gateway stage for protected routes: it extracts the bearer
// token, verifies it against the access secret, re-reads the account for
// liveness, and attaches the resulting Identity to the request context.
// All failure modes collapse into one uniform 401.
func Auth(svc authsvc.Service, t respond.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			t.Error(c, customErrors.ErrInvalidToken)
			return
		}

		ident, err := svc.Validate(c.Request.Context(), token)
		if err != nil {
			t.Error(c, err)
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// IdentityFrom returns the Identity attached by Auth for this request.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	ident, ok := v.(model.Identity)
	return ident, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
