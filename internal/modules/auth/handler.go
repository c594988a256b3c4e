package auth

import (
	"errors"
	"net/http"

	"kambafy/internal/middleware"
	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	stateCookie    = "kambafy_oauth_state"
	stateCookieTTL = 600
)

// Handler serves seller authentication.
type Handler struct {
	service *Service
	google  *GoogleOAuth
}

// NewHandler accepts a nil google when sign-in with Google is not configured.
func NewHandler(service *Service, google *GoogleOAuth) *Handler {
	return &Handler{service: service, google: google}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/google", h.GoogleURL)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// Register creates a seller account.
// @Summary		Register seller
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"name, email, password"
// @Success		201	{object}	AuthResponse
// @Failure		400	{object}	map[string]interface{} "VALIDATION_ERROR"
// @Failure		409	{object}	map[string]interface{} "EMAIL_EXISTS"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login exchanges email and password for an access token.
// @Summary		Login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	AuthResponse
// @Failure		401	{object}	map[string]interface{} "INVALID_CREDENTIALS"
// @Failure		403	{object}	map[string]interface{} "ACCOUNT_BANNED"
// @Failure		429	{object}	map[string]interface{} "RATE_LIMITED"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GoogleURL starts sign-in with Google. The state is also set as an HttpOnly cookie.
// @Summary		Google consent URL
// @Tags		Auth
// @Success		200	{object}	GoogleURLResponse
// @Failure		503	{object}	map[string]interface{} "OAUTH_DISABLED"
// @Router		/auth/google [GET]
func (h *Handler) GoogleURL(c *gin.Context) {
	url, state, err := h.google.AuthURL()
	if err != nil {
		writeError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", c.Request.TLS != nil, true)
	response.Success(c, http.StatusOK, GoogleURLResponse{URL: url})
}

// GetMe returns the authenticated user.
// @Summary		Current user
// @Tags		Auth
// @Security	BearerAuth
// @Success		200	{object}	MeResponse
// @Router		/auth/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.Me(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MeResponse{
		User:           *user,
		ImpersonatorID: middleware.ImpersonatorID(c),
		ReadOnly:       middleware.ReadOnly(c),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrInvalidEmail):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email")
	case errors.Is(err, ErrAccountBanned):
		response.Error(c, http.StatusForbidden, "ACCOUNT_BANNED", "This account has been banned")
	case errors.Is(err, ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts, try again later")
	case errors.Is(err, ErrOAuthDisabled):
		response.Error(c, http.StatusServiceUnavailable, "OAUTH_DISABLED", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed")
	}
}
