package respond

import (
	"net/http"
	"runtime/debug"

	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Stack      string      `json:"stack,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Paginated(c *gin.Context, message string, data any, page, limit int, total int64) {
	pages := 0
	if limit > 0 {
		pages = int(total) / limit
		if int(total)%limit != 0 {
			pages++
		}
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// Translator is the single place where domain errors become HTTP
// responses. Components below the transport never write responses
// themselves. Authentication failures stay deliberately uniform so the
// response never reveals whether an account exists.
type Translator struct {
	Dev bool
	Log *zap.Logger
}

func (t Translator) Error(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		t.abort(c, http.StatusBadRequest, err.Error(), nil)
	case customErrors.IsInvalidCredentials(err):
		t.abort(c, http.StatusUnauthorized, "invalid credentials", nil)
	case customErrors.IsInvalidToken(err):
		t.abort(c, http.StatusUnauthorized, "invalid or expired token", nil)
	case customErrors.IsForbidden(err):
		t.abort(c, http.StatusForbidden, err.Error(), nil)
	case customErrors.IsAlreadyExists(err):
		t.abort(c, http.StatusConflict, "user with this email already exists", nil)
	case customErrors.IsNotFound(err):
		t.abort(c, http.StatusNotFound, "user not found", nil)
	case customErrors.IsTooManyAttempts(err):
		t.abort(c, http.StatusTooManyRequests, "too many attempts, please try again later", nil)
	default:
		if t.Log != nil {
			t.Log.Error("unhandled error",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
		}
		t.abort(c, http.StatusInternalServerError, "internal server error", err)
	}
}

func (t Translator) abort(c *gin.Context, status int, message string, internal error) {
	env := Envelope{Success: false, Error: message}
	if t.Dev && internal != nil {
		env.Error = internal.Error()
		env.Stack = string(debug.Stack())
	}
	c.AbortWithStatusJSON(status, env)
}
