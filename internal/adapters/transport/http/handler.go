package http

import (
	"errors"
	"strconv"

	"github.com/avencia/auth-service/internal/adapters/transport/http/dto"
	"github.com/avencia/auth-service/internal/adapters/transport/http/middleware"
	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	authsvc "github.com/avencia/auth-service/internal/app/auth/service"
	usersvc "github.com/avencia/auth-service/internal/app/user/service"
	customErrors "github.com/avencia/auth-service/internal/domain/auth/errors"
	"github.com/avencia/auth-service/internal/domain/auth/model"
	"github.com/avencia/auth-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	auth  authsvc.Service
	users usersvc.Service
	t     respond.Translator
	m     *metrics.Metrics
}

func NewHandler(auth authsvc.Service, users usersvc.Service, t respond.Translator, m *metrics.Metrics) *Handler {
	return &Handler{auth: auth, users: users, t: t, m: m}
}

// RegisterRoutes mounts the API. The protected chain is gateway -> role
// authorizer -> handler; the login route additionally runs the throttle
// before anything looks at the body.
func (h *Handler) RegisterRoutes(r *gin.Engine, authMW, loginThrottleMW gin.HandlerFunc) {
	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", loginThrottleMW, h.Login)
	auth.POST("/refresh-token", h.RefreshToken)
	auth.GET("/me", authMW, h.Me)
	auth.POST("/logout", authMW, h.Logout)

	user := r.Group("/user", authMW)
	user.GET("/profile", h.GetProfile)
	user.PUT("/profile", h.UpdateProfile)

	admin := user.Group("", middleware.RequireRoles(h.t, model.RoleAdmin))
	admin.GET("/all", h.ListUsers)
	admin.GET("/:id", h.GetUser)
	admin.PUT("/:id", h.UpdateUser)
	admin.DELETE("/:id", h.DeactivateUser)
}

func (h *Handler) Register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.t.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	user, pair, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	h.m.Registrations.Inc()
	respond.Created(c, "user registered successfully", dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.NewTokenPairResponse(pair),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.t.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, customErrors.ErrInvalidCredentials) {
			h.m.LoginAttempts.WithLabelValues("failure").Inc()
		}
		h.t.Error(c, err)
		return
	}

	h.m.LoginAttempts.WithLabelValues("success").Inc()
	respond.OK(c, "login successful", dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.NewTokenPairResponse(pair),
	})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.t.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), body)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	h.m.TokenRefreshes.Inc()
	respond.OK(c, "token refreshed successfully", dto.NewTokenPairResponse(pair))
}

func (h *Handler) Me(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.t.Error(c, customErrors.WrapInternal(errors.New("identity missing"), "Me"))
		return
	}
	respond.OK(c, "current user fetched successfully", dto.NewIdentityResponse(ident))
}

func (h *Handler) Logout(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.t.Error(c, customErrors.WrapInternal(errors.New("identity missing"), "Logout"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), ident.ID); err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "logout successful", nil)
}

func (h *Handler) GetProfile(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.t.Error(c, customErrors.WrapInternal(errors.New("identity missing"), "GetProfile"))
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), ident.ID)
	if err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "profile fetched successfully", dto.NewUserResponse(user))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.t.Error(c, customErrors.WrapInternal(errors.New("identity missing"), "UpdateProfile"))
		return
	}

	var body dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.t.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), ident.ID, body)
	if err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "profile updated successfully", dto.NewUserResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, limit, err := pagingParams(c)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.t.Error(c, err)
		return
	}
	respond.Paginated(c, "users fetched successfully", dto.NewUserResponses(users), page, limit, total)
}

// pagingParams validates the paging query. Oversized limits are clamped so
// the echoed pagination metadata matches what the service actually used.
func pagingParams(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, customErrors.NewInvalidArgument("page must be a positive integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		return 0, 0, customErrors.NewInvalidArgument("limit must be a positive integer")
	}
	if limit > usersvc.MaxLimit {
		limit = usersvc.MaxLimit
	}

	return page, limit, nil
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := h.pathID(c)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "user fetched successfully", dto.NewUserResponse(user))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := h.pathID(c)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	var body dto.AdminUpdateUserDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.t.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, body)
	if err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "user updated successfully", dto.NewUserResponse(user))
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, err := h.pathID(c)
	if err != nil {
		h.t.Error(c, err)
		return
	}

	if err := h.users.DeactivateUser(c.Request.Context(), id); err != nil {
		h.t.Error(c, err)
		return
	}
	respond.OK(c, "user deactivated successfully", nil)
}

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, customErrors.NewInvalidArgument("invalid user id")
	}
	return id, nil
}
