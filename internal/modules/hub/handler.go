package hub

import (
	"net/http"

	"kambafy/internal/modules/members"
	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by members.RequireSession.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/hub", h.GetDashboard)
}

// GetDashboard returns the member's course cards.
// @Summary		Member hub
// @Tags		Members
// @Param		tab	query	string	false	"todos | em_andamento | nao_iniciado | concluido"
// @Param		q	query	string	false	"search, case and accent insensitive"
// @Success		200	{object}	map[string]interface{}
// @Router		/members/hub [GET]
func (h *Handler) GetDashboard(c *gin.Context) {
	sess, ok := members.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Member session required")
		return
	}

	d, err := h.service.Dashboard(c.Request.Context(), sess, ParseTab(c.Query("tab")), c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load your courses")
		return
	}
	response.Success(c, http.StatusOK, d)
}
