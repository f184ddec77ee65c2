package middleware

import (
	"errors"
	"fmt"

	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

// RequireRoles rejects requests whose Identity role is not in the allowed
// set. It must run after Auth in the same chain; a missing Identity is a
// wiring bug, not an authentication failure, and surfaces as a 500.
func RequireRoles(t respond.Translator, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			t.Error(c, customErrors.WrapInternal(
				errors.New("identity missing from context"), "RequireRoles",
			))
			return
		}

		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}

		t.Error(c, fmt.Errorf("%w: role %q is not allowed to access this route",
			customErrors.ErrForbidden, ident.Role))
	}
}
