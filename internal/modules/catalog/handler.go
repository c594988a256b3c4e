package catalog

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/products/:slug", h.GetPublicProduct)
}

// RegisterSellerRoutes expects a seller-only group.
func (h *Handler) RegisterSellerRoutes(seller *gin.RouterGroup) {
	products := seller.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.PUT("/:id", h.UpdateProduct)
	}

	areas := seller.Group("/member-areas")
	{
		areas.POST("", h.CreateArea)
		areas.GET("", h.ListAreas)
		areas.PUT("/:id", h.UpdateArea)
		areas.GET("/:id/content", h.GetContent)
		areas.POST("/:id/modules", h.CreateModule)
		areas.PUT("/:id/modules/order", h.ReorderModules)
		areas.POST("/:id/lessons", h.CreateLesson)
		areas.PUT("/:id/lessons/order", h.ReorderLessons)
	}

	seller.PUT("/modules/:id", h.UpdateModule)
	seller.PUT("/lessons/:id", h.UpdateLesson)
}

// GetPublicProduct returns an active product for its checkout page.
// @Summary		Public product
// @Tags		Catalog
// @Param		slug	path	string	true	"Product slug"
// @Success		200	{object}	domain.Product
// @Failure		404	{object}	map[string]interface{} "PRODUCT_NOT_FOUND"
// @Router		/products/{slug} [GET]
func (h *Handler) GetPublicProduct(c *gin.Context) {
	p, err := h.service.PublicProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// CreateProduct adds a product; the slug is derived from its name.
// @Summary		Create product
// @Tags		Catalog
// @Security	BearerAuth
// @Param		request	body	CreateProductRequest	true	"product"
// @Success		201	{object}	domain.Product
// @Router		/seller/products [POST]
func (h *Handler) CreateProduct(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.CreateProduct(c.Request.Context(), sellerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// ListProducts lists the seller's products, newest first.
// @Summary		My products
// @Tags		Catalog
// @Security	BearerAuth
// @Router		/seller/products [GET]
func (h *Handler) ListProducts(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	products, err := h.service.ListProducts(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products})
}

// @Summary		Update product
// @Tags		Catalog
// @Security	BearerAuth
// @Param		id		path	string					true	"Product ID"
// @Param		request	body	UpdateProductRequest	true	"product"
// @Router		/seller/products/{id} [PUT]
func (h *Handler) UpdateProduct(c *gin.Context) {
	sellerID, id, ok := ids(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.UpdateProduct(c.Request.Context(), sellerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// CreateArea creates the member area of a Curso product.
// @Summary		Create member area
// @Tags		Catalog
// @Security	BearerAuth
// @Param		request	body	AreaRequest	true	"product_id and branding"
// @Failure		409	{object}	map[string]interface{} "MEMBER_AREA_EXISTS"
// @Failure		422	{object}	map[string]interface{} "NOT_A_COURSE"
// @Router		/seller/member-areas [POST]
func (h *Handler) CreateArea(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.ProductID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "product_id is required")
		return
	}
	a, err := h.service.CreateArea(c.Request.Context(), sellerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) ListAreas(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	areas, err := h.service.ListAreas(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member_areas": areas})
}

func (h *Handler) UpdateArea(c *gin.Context) {
	sellerID, id, ok := ids(c)
	if !ok {
		return
	}
	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	a, err := h.service.UpdateArea(c.Request.Context(), sellerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// GetContent returns every module and lesson of the area, drafts included.
// @Summary		Member area content
// @Tags		Catalog
// @Security	BearerAuth
// @Param		id	path	string	true	"Member area ID"
// @Success		200	{object}	AreaContent
// @Router		/seller/member-areas/{id}/content [GET]
func (h *Handler) GetContent(c *gin.Context) {
	sellerID, id, ok := ids(c)
	if !ok {
		return
	}
	content, err := h.service.Content(c.Request.Context(), sellerID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, content)
}

func (h *Handler) CreateModule(c *gin.Context) {
	sellerID, areaID, ok := ids(c)
	if !ok {
		return
	}
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	m, err := h.service.CreateModule(c.Request.Context(), sellerID, areaID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) UpdateModule(c *gin.Context) {
	sellerID, id, ok := ids(c)
	if !ok {
		return
	}
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	m, err := h.service.UpdateModule(c.Request.Context(), sellerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// ReorderModules numbers the given modules 1..n in request order.
// @Summary		Reorder modules
// @Tags		Catalog
// @Security	BearerAuth
// @Param		id		path	string			true	"Member area ID"
// @Param		request	body	ReorderRequest	true	"module ids in display order"
// @Router		/seller/member-areas/{id}/modules/order [PUT]
func (h *Handler) ReorderModules(c *gin.Context) {
	sellerID, areaID, order, ok := reorderInput(c)
	if !ok {
		return
	}
	modules, err := h.service.ReorderModules(c.Request.Context(), sellerID, areaID, order)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modules": modules})
}

func (h *Handler) CreateLesson(c *gin.Context) {
	sellerID, areaID, ok := ids(c)
	if !ok {
		return
	}
	var req LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	l, err := h.service.CreateLesson(c.Request.Context(), sellerID, areaID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) UpdateLesson(c *gin.Context) {
	sellerID, id, ok := ids(c)
	if !ok {
		return
	}
	var req LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	l, err := h.service.UpdateLesson(c.Request.Context(), sellerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) ReorderLessons(c *gin.Context) {
	sellerID, areaID, order, ok := reorderInput(c)
	if !ok {
		return
	}
	lessons, err := h.service.ReorderLessons(c.Request.Context(), sellerID, areaID, order)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": lessons})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAreaNotFound):
		response.Error(c, http.StatusNotFound, "MEMBER_AREA_NOT_FOUND", err.Error())
	case errors.Is(err, ErrModuleNotFound):
		response.Error(c, http.StatusNotFound, "MODULE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrLessonNotFound):
		response.Error(c, http.StatusNotFound, "LESSON_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAreaExists):
		response.Error(c, http.StatusConflict, "MEMBER_AREA_EXISTS", err.Error())
	case errors.Is(err, ErrNotCourse):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_A_COURSE", err.Error())
	case errors.Is(err, ErrModuleMismatch):
		response.Error(c, http.StatusUnprocessableEntity, "MODULE_MISMATCH", err.Error())
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Catalog operation failed")
	}
}

func sellerFrom(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func ids(c *gin.Context) (sellerID, id uuid.UUID, ok bool) {
	if sellerID, ok = sellerFrom(c); !ok {
		return
	}
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return sellerID, parsed, true
}

func reorderInput(c *gin.Context) (sellerID, areaID uuid.UUID, order []uuid.UUID, ok bool) {
	if sellerID, areaID, ok = ids(c); !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return uuid.Nil, uuid.Nil, nil, false
	}
	order = make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		order[i] = uuid.MustParse(raw)
	}
	return sellerID, areaID, order, true
}
