package quiz

import (
	"errors"
	"net/http"

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

// RegisterRoutes expects a seller-only group.
func (h *Handler) RegisterRoutes(seller *gin.RouterGroup) {
	g := seller.Group("/quizzes")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Create saves a new quiz with all of its questions.
// @Summary		Create quiz
// @Tags		Quizzes
// @Security	BearerAuth
// @Param		request	body	SaveQuizRequest	true	"quiz"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "VALIDATION_ERROR"
// @Failure		403	{object}	map[string]interface{} "FORBIDDEN"
// @Router		/quizzes [POST]
func (h *Handler) Create(c *gin.Context) {
	h.save(c, nil, http.StatusCreated)
}

// Update replaces a quiz and all of its questions.
// @Summary		Update quiz
// @Tags		Quizzes
// @Security	BearerAuth
// @Param		id		path	string			true	"Quiz ID"
// @Param		request	body	SaveQuizRequest	true	"quiz"
// @Success		200	{object}	map[string]interface{}
// @Router		/quizzes/{id} [PUT]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.save(c, &id, http.StatusOK)
}

// Get returns one quiz with its ordered questions.
// @Summary		Get quiz
// @Tags		Quizzes
// @Security	BearerAuth
// @Param		id	path	string	true	"Quiz ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/quizzes/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	q, err := h.service.Get(c.Request.Context(), sellerID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// List returns the quizzes of a lesson or module.
// @Summary		List quizzes
// @Tags		Quizzes
// @Security	BearerAuth
// @Param		lesson_id	query	string	false	"Lesson ID"
// @Param		module_id	query	string	false	"Module ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/quizzes [GET]
func (h *Handler) List(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	lessonID, okL := queryID(c, "lesson_id")
	moduleID, okM := queryID(c, "module_id")
	if !okL || !okM {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lesson_id or module_id")
		return
	}
	quizzes, err := h.service.List(c.Request.Context(), sellerID, lessonID, moduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quizzes)
}

// Delete removes a quiz.
// @Summary		Delete quiz
// @Tags		Quizzes
// @Security	BearerAuth
// @Param		id	path	string	true	"Quiz ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/quizzes/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), sellerID, id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Quiz deleted"})
}

func (h *Handler) save(c *gin.Context, id *uuid.UUID, status int) {
	sellerID, _ := middleware.UserID(c)
	var req SaveQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	q, err := h.service.Save(c.Request.Context(), sellerID, id, req.Draft())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status, q)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Quiz is incomplete", verr.Problems)
	case errors.Is(err, ErrQuizNotFound):
		response.Error(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found")
	case errors.Is(err, ErrTargetNotFound):
		response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Lesson or module not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this content")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not process quiz")
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quiz ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
