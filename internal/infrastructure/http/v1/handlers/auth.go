package handlers

import (
	"github.com/gin-gonic/gin"

	"bankreco/internal/core/apperror"
	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/infrastructure/http/v1/dto"
)

// AuthHandler proxies authentication to the reconciliation backend.
type AuthHandler struct {
	*BaseHandler
	backend *backend.Client
	columns *columns.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, client *backend.Client, cols *columns.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		backend:     client,
		columns:     cols,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.backend.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, dto.FromTokens(session.Tokens()))
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.backend.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, dto.FromTokens(tokens))
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.backend.Register(c.Request.Context(), req.ToRegistration())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.Created(c, user)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.User(c)
	if user == nil {
		return
	}

	me, err := userBackend(c, h.backend, user).CurrentUser(c.Request.Context())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, me)
}

// Logout handles POST /auth/logout. The user's column settings are
// cleared; tokens are stateless and simply dropped by the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := h.User(c)
	if user == nil {
		return
	}
	if err := h.columns.Reset(c.Request.Context(), user.UserID); err != nil {
		h.Error(c, apperror.NewStorage(err))
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the public and the authenticated auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.POST("/register", h.Register)
	public.POST("/refresh", h.Refresh)

	protected.GET("/me", h.Me)
	protected.POST("/logout", h.Logout)
}
