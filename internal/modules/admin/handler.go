package admin

import (
	"errors"
	"net/http"
	"strconv"

	"kambafy/internal/middleware"
	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects an admin-only group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// products moderation
	admin.POST("/products/:id/ban", h.BanProduct)
	admin.POST("/products/:id/unban", h.UnbanProduct)

	// sellers moderation
	admin.GET("/users", h.GetUsers)
	admin.POST("/sellers/:id/ban", h.BanSeller)
	admin.POST("/sellers/:id/unban", h.UnbanSeller)
	admin.PUT("/sellers/:id/retention", h.SetRetention)

	admin.POST("/impersonate", h.Impersonate)

	// email actions
	admin.POST("/emails/password-reset", h.SendPasswordReset)
	admin.POST("/emails/bulk-reset", h.BulkPasswordReset)
	admin.POST("/emails/test-recovery", h.SendTestRecovery)

	admin.GET("/logs", h.GetLogs)
}

// BanProduct hides a product from sale and from its buyers' member areas.
// @Summary		Ban product
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	string		true	"Product ID"
// @Param		request	body	BanRequest	true	"reason"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "PRODUCT_NOT_FOUND"
// @Router		/admin/products/{id}/ban [POST]
func (h *Handler) BanProduct(c *gin.Context) {
	adminID, id, ok := ids(c)
	if !ok {
		return
	}
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.BanProduct(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UnbanProduct restores a banned product.
// @Summary		Unban product
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	string	true	"Product ID"
// @Router		/admin/products/{id}/unban [POST]
func (h *Handler) UnbanProduct(c *gin.Context) {
	adminID, id, ok := ids(c)
	if !ok {
		return
	}
	p, err := h.service.UnbanProduct(c.Request.Context(), adminID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// GetUsers lists sellers and admins.
// @Summary		List users
// @Tags		Admin
// @Security	BearerAuth
// @Param		role	query	string	false	"seller | admin"
// @Param		banned	query	bool	false	"filter by ban"
// @Param		q		query	string	false	"email or name contains"
// @Param		page	query	int		false	"page"	default(1)
// @Param		limit	query	int		false	"page size"	default(20)
// @Success		200	{object}	UserListResponse
// @Router		/admin/users [GET]
func (h *Handler) GetUsers(c *gin.Context) {
	var filter UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	page, limit := pageBounds(parseIntDefault(c.Query("page"), 1), parseIntDefault(c.Query("limit"), 20))

	users, total, err := h.service.ListUsers(c.Request.Context(), filter, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, UserListResponse{Users: users, Total: total, Page: page, Limit: limit})
}

// BanSeller blocks a seller and sends the ban notice email.
// @Summary		Ban seller
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	string		true	"Seller ID"
// @Param		request	body	BanRequest	true	"reason"
// @Router		/admin/sellers/{id}/ban [POST]
func (h *Handler) BanSeller(c *gin.Context) {
	adminID, id, ok := ids(c)
	if !ok {
		return
	}
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	u, err := h.service.BanSeller(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// UnbanSeller lifts a seller ban.
// @Summary		Unban seller
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	string	true	"Seller ID"
// @Router		/admin/sellers/{id}/unban [POST]
func (h *Handler) UnbanSeller(c *gin.Context) {
	adminID, id, ok := ids(c)
	if !ok {
		return
	}
	u, err := h.service.UnbanSeller(c.Request.Context(), adminID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// SetRetention sets the share of a seller's balance withheld from withdrawal.
// @Summary		Set seller retention
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	string				true	"Seller ID"
// @Param		request	body	RetentionRequest	true	"percent 0-100"
// @Router		/admin/sellers/{id}/retention [PUT]
func (h *Handler) SetRetention(c *gin.Context) {
	adminID, id, ok := ids(c)
	if !ok {
		return
	}
	var req RetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	u, err := h.service.SetRetention(c.Request.Context(), adminID, id, req.Percent)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Impersonate issues a short-lived token acting as another user.
// @Summary		Impersonate user
// @Description	Duration 1-60 minutes (default 30). Read-only by default; read-only tokens are rejected on writes.
// @Tags		Admin
// @Security	BearerAuth
// @Param		request	body	ImpersonateRequest	true	"target"
// @Success		200	{object}	ImpersonateResponse
// @Router		/admin/impersonate [POST]
func (h *Handler) Impersonate(c *gin.Context) {
	adminID, ok := adminFrom(c)
	if !ok {
		return
	}
	var req ImpersonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.service.Impersonate(c.Request.Context(), adminID, uuid.MustParse(req.UserID), req.Minutes, req.ReadOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// SendPasswordReset emails a password reset link to one user.
// @Summary		Send password reset
// @Tags		Admin
// @Security	BearerAuth
// @Param		request	body	PasswordResetRequest	true	"user"
// @Router		/admin/emails/password-reset [POST]
func (h *Handler) SendPasswordReset(c *gin.Context) {
	adminID, ok := adminFrom(c)
	if !ok {
		return
	}
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.service.SendPasswordReset(c.Request.Context(), adminID, uuid.MustParse(req.UserID)); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset sent"})
}

// BulkPasswordReset emails password reset links to many users.
// @Summary		Bulk password reset
// @Tags		Admin
// @Security	BearerAuth
// @Param		request	body	BulkResetRequest	true	"users"
// @Router		/admin/emails/bulk-reset [POST]
func (h *Handler) BulkPasswordReset(c *gin.Context) {
	adminID, ok := adminFrom(c)
	if !ok {
		return
	}
	var req BulkResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	userIDs := make([]uuid.UUID, len(req.UserIDs))
	for i, raw := range req.UserIDs {
		userIDs[i] = uuid.MustParse(raw)
	}
	res, err := h.service.BulkPasswordReset(c.Request.Context(), adminID, userIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// SendTestRecovery sends a recovery test email to any address.
// @Summary		Send test recovery email
// @Tags		Admin
// @Security	BearerAuth
// @Param		request	body	TestRecoveryRequest	true	"email"
// @Router		/admin/emails/test-recovery [POST]
func (h *Handler) SendTestRecovery(c *gin.Context) {
	adminID, ok := adminFrom(c)
	if !ok {
		return
	}
	var req TestRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.service.SendTestRecovery(c.Request.Context(), adminID, req.Email); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Test email sent"})
}

// GetLogs returns admin actions, newest first.
// @Summary		Admin action log
// @Tags		Admin
// @Security	BearerAuth
// @Param		limit	query	int	false	"page size"	default(50)
// @Param		offset	query	int	false	"offset"	default(0)
// @Success		200	{object}	LogListResponse
// @Router		/admin/logs [GET]
func (h *Handler) GetLogs(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)
	logs, total, err := h.service.Logs(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, LogListResponse{Logs: logs, Total: total, Limit: limit, Offset: offset})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotAdmin):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotSeller), errors.Is(err, ErrCannotImpersonateAdmin):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_TARGET", err.Error())
	case errors.Is(err, ErrInvalidRetention), errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Admin action failed")
	}
}

func adminFrom(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func ids(c *gin.Context) (adminID, id uuid.UUID, ok bool) {
	if adminID, ok = adminFrom(c); !ok {
		return
	}
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return adminID, parsed, true
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
