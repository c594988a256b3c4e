package admin

import (
	"time"

	"kambafy/internal/domain"

	"github.com/shopspring/decimal"
)

type BanRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type RetentionRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

type ImpersonateRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Minutes  *int   `json:"minutes"`
	ReadOnly *bool  `json:"read_only"`
}

type ImpersonateResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	ReadOnly  bool        `json:"read_only"`
	User      domain.User `json:"user"`
}

type PasswordResetRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type BulkResetRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,max=500,dive,uuid"`
}

type TestRecoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UserListFilter struct {
	Role   string `form:"role" binding:"omitempty,oneof=seller admin"`
	Banned *bool  `form:"banned"`
	Query  string `form:"q"`
}

type UserListResponse struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type LogListResponse struct {
	Logs   []domain.AdminActionLog `json:"logs"`
	Total  int64                   `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}
