package middleware

import (
	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/repo"
	"github.com/avencia/auth-service/internal/metrics"
	"github.com/gin-gonic/gin"
)

// LoginThrottle guards the login route only. It counts every attempt
// before credentials are looked at, so the cap holds regardless of
// correctness, and the deny message reveals nothing about the account.
func LoginThrottle(th repo.LoginThrottle, m *metrics.Metrics, t respond.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := th.Admit(c.Request.Context(), c.ClientIP())
		if err != nil {
			t.Error(c, customErrors.WrapInternal(err, "LoginThrottle"))
			return
		}
		if !ok {
			m.ThrottleDenials.Inc()
			t.Error(c, customErrors.ErrTooManyAttempts)
			return
		}
		c.Next()
	}
}
