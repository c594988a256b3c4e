package liveview

import (
	"errors"
	"net/http"

	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SocketServer upgrades a request and streams the given channels.
type SocketServer interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request, channels []string)
}

type Handler struct {
	views   *Registry
	sockets SocketServer
}

func NewHandler(views *Registry, sockets SocketServer) *Handler {
	return &Handler{views: views, sockets: sockets}
}

// RegisterRoutes expects an admin-only group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/live")
	g.GET("", h.ListViews)
	g.GET("/:view", h.GetSnapshot)
	g.POST("/:view/refresh", h.Refresh)
	g.GET("/:view/ws", h.Stream)
}

// ListViews returns the configured view names.
// @Summary		List live views
// @Tags		Admin Live
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/live [GET]
func (h *Handler) ListViews(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"views": h.views.Names()})
}

// GetSnapshot returns the latest snapshot, computing one if none exists yet.
// @Summary		Live view snapshot
// @Tags		Admin Live
// @Security	BearerAuth
// @Param		view	path	string	true	"angola | mozambique"
// @Success		200	{object}	Snapshot
// @Failure		404	{object}	map[string]interface{} "VIEW_NOT_FOUND"
// @Failure		503	{object}	map[string]interface{} "SNAPSHOT_UNAVAILABLE"
// @Router		/admin/live/{view} [GET]
func (h *Handler) GetSnapshot(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}
	if snap := coord.Snapshot(); snap != nil {
		response.Success(c, http.StatusOK, snap)
		return
	}
	h.refresh(c, coord)
}

// Refresh forces a recomputation.
// @Summary		Refresh live view
// @Tags		Admin Live
// @Security	BearerAuth
// @Param		view	path	string	true	"angola | mozambique"
// @Success		200	{object}	Snapshot
// @Router		/admin/live/{view}/refresh [POST]
func (h *Handler) Refresh(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}
	h.refresh(c, coord)
}

// Stream upgrades to a websocket that receives each new snapshot.
// @Summary		Live view stream
// @Tags		Admin Live
// @Security	BearerAuth
// @Param		view	path	string	true	"angola | mozambique"
// @Router		/admin/live/{view}/ws [GET]
func (h *Handler) Stream(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}
	h.sockets.ServeHTTP(c.Writer, c.Request, []string{Channel(coord.View().Name)})
}

func (h *Handler) refresh(c *gin.Context, coord *Coordinator) {
	snap, err := coord.Refresh(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if stale := coord.Snapshot(); stale != nil {
			response.Success(c, http.StatusOK, stale)
			return
		}
		response.Error(c, http.StatusServiceUnavailable, "SNAPSHOT_UNAVAILABLE", "Live data is temporarily unavailable")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) coordinator(c *gin.Context) (*Coordinator, bool) {
	coord, err := h.views.Get(c.Param("view"))
	if errors.Is(err, ErrUnknownView) {
		response.Error(c, http.StatusNotFound, "VIEW_NOT_FOUND", "Unknown live view")
		return nil, false
	}
	return coord, true
}
