package members

import (
	"errors"
	"net/http"

	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const accessDeniedMessage = "Email not found or without access to this content"

type Handler struct {
	manager *SessionManager
}

func NewHandler(manager *SessionManager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes mounts login publicly and the rest behind the member session.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	g := v1.Group("/members")
	g.POST("/login", h.Login)

	authed := g.Group("", RequireSession(h.manager))
	authed.POST("/logout", h.Logout)
	authed.GET("/session", h.GetSession)
	authed.GET("/courses", h.ListCourses)
}

// Login opens a member session for one member area or for the hub.
// @Summary		Member login
// @Description	Issues a member token when the email has purchased access. Without member_area_id the session covers the unified hub.
// @Tags		Members
// @Param		request	body	LoginRequest	true	"email, name, optional member_area_id"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{} "ACCESS_DENIED"
// @Failure		429	{object}	map[string]interface{} "RATE_LIMITED"
// @Router		/members/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnauthorized, "ACCESS_DENIED", accessDeniedMessage)
		return
	}

	scope := HubScope()
	if req.MemberAreaID != "" {
		id, err := uuid.Parse(req.MemberAreaID)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid member area ID")
			return
		}
		scope = AreaScope(id)
	}

	s, err := h.manager.Login(c.Request.Context(), scope, req.Email, req.Name)
	if err != nil {
		switch {
		case IsAccessDenied(err):
			response.Error(c, http.StatusUnauthorized, "ACCESS_DENIED", accessDeniedMessage)
		case errors.Is(err, ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, try again later")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not complete login")
		}
		return
	}

	response.Success(c, http.StatusOK, s)
}

// Logout revokes the current member session.
// @Summary		Member logout
// @Tags		Members
// @Success		200	{object}	map[string]interface{}
// @Router		/members/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context(), memberToken(c)); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not log out")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": StateLoggedOut})
}

// GetSession returns the current member session.
// @Summary		Current member session
// @Tags		Members
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/members/session [GET]
func (h *Handler) GetSession(c *gin.Context) {
	s, _ := SessionFrom(c)
	response.Success(c, http.StatusOK, s)
}

// ListCourses lists the courses of the logged-in member with progress.
// Area-scoped sessions only see their own area.
// @Summary		Member courses
// @Tags		Members
// @Success		200	{object}	map[string]interface{}
// @Router		/members/courses [GET]
func (h *Handler) ListCourses(c *gin.Context) {
	s, _ := SessionFrom(c)
	courses, err := h.manager.SessionEntitlements(c.Request.Context(), s)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load courses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}
