package withdrawal

import (
	"errors"
	"net/http"

	"kambafy/internal/domain"
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

// RegisterSellerRoutes expects a seller-only group.
func (h *Handler) RegisterSellerRoutes(seller *gin.RouterGroup) {
	g := seller.Group("/withdrawals")
	g.GET("/balance", h.GetBalance)
	g.POST("", h.Create)
	g.GET("", h.ListMine)
}

// RegisterAdminRoutes expects an admin-only group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/withdrawals", h.ListAll)
	admin.POST("/withdrawals/:id/approve", h.Approve)
	admin.POST("/withdrawals/:id/reject", h.Reject)
	admin.GET("/balances", h.ListBalances)
	admin.GET("/balances/total", h.GetTotalBalance)
}

// GetBalance returns the caller's balance per currency and the amount available to withdraw.
// @Summary		My balance
// @Tags		Withdrawals
// @Security	BearerAuth
// @Success		200	{array}	Balance
// @Router		/withdrawals/balance [GET]
func (h *Handler) GetBalance(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	b, err := h.service.Balance(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Create requests a withdrawal of part of the available balance.
// @Summary		Request withdrawal
// @Tags		Withdrawals
// @Security	BearerAuth
// @Param		request	body	CreateRequest	true	"amount and currency (default AOA)"
// @Success		201	{object}	domain.WithdrawalRequest
// @Failure		400	{object}	map[string]interface{} "INVALID_AMOUNT | INVALID_CURRENCY"
// @Failure		409	{object}	map[string]interface{} "INSUFFICIENT_FUNDS"
// @Router		/withdrawals [POST]
func (h *Handler) Create(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	w, err := h.service.Request(c.Request.Context(), sellerID, req.Amount, req.Currency)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, w)
}

// ListMine returns the caller's withdrawal history.
// @Summary		My withdrawals
// @Tags		Withdrawals
// @Security	BearerAuth
// @Router		/withdrawals [GET]
func (h *Handler) ListMine(c *gin.Context) {
	sellerID, _ := middleware.UserID(c)
	list, err := h.service.ListMine(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// ListAll lists every withdrawal request.
// @Summary		All withdrawals
// @Tags		Admin
// @Security	BearerAuth
// @Param		status	query	string	false	"pendente | aprovado | rejeitado"
// @Router		/admin/withdrawals [GET]
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.service.AllWithdrawals(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Approve marks a pending request as paid out.
// @Summary		Approve withdrawal
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	string			true	"Withdrawal ID"
// @Param		request	body	DecisionRequest	false	"notes"
// @Router		/admin/withdrawals/{id}/approve [POST]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, domain.WithdrawalApproved)
}

// Reject releases the reserved amount back to the seller.
// @Summary		Reject withdrawal
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	string			true	"Withdrawal ID"
// @Param		request	body	DecisionRequest	false	"notes"
// @Router		/admin/withdrawals/{id}/reject [POST]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, domain.WithdrawalRejected)
}

// ListBalances returns every seller's balance, one row per currency.
// @Summary		All balances
// @Tags		Admin
// @Security	BearerAuth
// @Router		/admin/balances [GET]
func (h *Handler) ListBalances(c *gin.Context) {
	list, err := h.service.AllBalances(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// GetTotalBalance returns the platform-wide sum of seller balances keyed by currency.
// @Summary		Total balance
// @Tags		Admin
// @Security	BearerAuth
// @Router		/admin/balances/total [GET]
func (h *Handler) GetTotalBalance(c *gin.Context) {
	total, err := h.service.TotalBalance(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"total": total})
}

func (h *Handler) decide(c *gin.Context, to domain.WithdrawalStatus) {
	adminID, _ := middleware.UserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid withdrawal ID")
		return
	}
	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	var w *domain.WithdrawalRequest
	if to == domain.WithdrawalApproved {
		w, err = h.service.Approve(c.Request.Context(), adminID, id, req.Notes)
	} else {
		w, err = h.service.Reject(c.Request.Context(), adminID, id, req.Notes)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, "INVALID_AMOUNT", err.Error())
	case errors.Is(err, ErrInvalidCurrency):
		response.Error(c, http.StatusBadRequest, "INVALID_CURRENCY", err.Error())
	case errors.Is(err, ErrInvalidStatusQuery):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusConflict, "INSUFFICIENT_FUNDS", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrSellerBanned):
		response.Error(c, http.StatusForbidden, "SELLER_BANNED", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSellerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not process withdrawal")
	}
}
