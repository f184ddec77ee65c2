package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avencia/auth-service/internal/adapters/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(ctx context.Context, limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewRateLimitPerIP(ctx, limit, burst, 16, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitPerIPBlocksBurstOverflow(t *testing.T) {
	r := rateLimitedRouter(context.Background(), 1, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitPerIPServesAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := rateLimitedRouter(ctx, 10, 10)

	// cancellation stops the cleanup goroutine, not the limiter itself
	cancel()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
