package progress

import (
	"errors"
	"net/http"

	"kambafy/internal/modules/members"
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

// RegisterRoutes expects a group already guarded by members.RequireSession.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	lessons := g.Group("/lessons/:id")
	{
		lessons.GET("", h.OpenLesson)
		lessons.PUT("/progress", h.UpdatePosition)
		lessons.PUT("/complete", h.SetCompleted)
		lessons.PUT("/rating", h.Rate)
		lessons.POST("/comments", h.AddComment)
	}
	g.GET("/areas/:id/progress", h.CourseProgress)
}

// OpenLesson returns lesson, video source, prior progress, comments and the next lesson.
// @Summary		Open lesson
// @Tags		Members
// @Param		id	path	string	true	"Lesson ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/members/lessons/{id} [GET]
func (h *Handler) OpenLesson(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	view, err := h.service.OpenLesson(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// UpdatePosition stores the playback position; throttled ticks answer persisted=false.
// @Summary		Update playback position
// @Tags		Members
// @Param		id		path	string					true	"Lesson ID"
// @Param		request	body	UpdatePositionRequest	true	"position and duration in seconds"
// @Success		200	{object}	map[string]interface{}
// @Router		/members/lessons/{id}/progress [PUT]
func (h *Handler) UpdatePosition(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	persisted, err := h.service.UpdatePosition(c.Request.Context(), sess, id, req.Position, req.Duration)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"persisted": persisted})
}

// SetCompleted marks or unmarks a lesson as completed.
// @Summary		Set lesson completion
// @Tags		Members
// @Param		id		path	string				true	"Lesson ID"
// @Param		request	body	SetCompletedRequest	true	"completed flag"
// @Success		200	{object}	map[string]interface{}
// @Router		/members/lessons/{id}/complete [PUT]
func (h *Handler) SetCompleted(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	var req SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	p, err := h.service.SetCompleted(c.Request.Context(), sess, id, req.Completed)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Rate stores a 1 to 5 star rating.
// @Summary		Rate lesson
// @Tags		Members
// @Param		id		path	string		true	"Lesson ID"
// @Param		request	body	RateRequest	true	"rating"
// @Success		200	{object}	map[string]interface{}
// @Router		/members/lessons/{id}/rating [PUT]
func (h *Handler) Rate(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
		return
	}
	p, err := h.service.Rate(c.Request.Context(), sess, id, req.Rating)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// AddComment posts a comment under a lesson.
// @Summary		Comment lesson
// @Tags		Members
// @Param		id		path	string			true	"Lesson ID"
// @Param		request	body	CommentRequest	true	"text"
// @Success		201	{object}	map[string]interface{}
// @Router		/members/lessons/{id}/comments [POST]
func (h *Handler) AddComment(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), sess, id, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment)
}

// CourseProgress returns completion totals of a member area.
// @Summary		Course progress
// @Tags		Members
// @Param		id	path	string	true	"Member area ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/members/areas/{id}/progress [GET]
func (h *Handler) CourseProgress(c *gin.Context) {
	sess, id, ok := h.sessionAndID(c)
	if !ok {
		return
	}
	out, err := h.service.CourseProgress(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) sessionAndID(c *gin.Context) (*members.Session, uuid.UUID, bool) {
	sess, ok := members.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Member session required")
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return nil, uuid.Nil, false
	}
	return sess, id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLessonNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
	case errors.Is(err, ErrLessonNotReleased):
		response.Error(c, http.StatusForbidden, "NOT_RELEASED", "Lesson is not available yet")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "No access to this content")
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidComment), errors.Is(err, ErrInvalidPosition):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
