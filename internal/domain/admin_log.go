package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionBanProduct      = "ban_product"
	ActionUnbanProduct    = "unban_product"
	ActionBanSeller       = "ban_seller"
	ActionUnbanSeller     = "unban_seller"
	ActionSetRetention    = "set_retention"
	ActionImpersonate     = "impersonate"
	ActionApproveWithdraw = "approve_withdrawal"
	ActionRejectWithdraw  = "reject_withdrawal"
	ActionPasswordReset   = "password_reset"
	ActionBulkReset       = "bulk_password_reset"
	ActionTestRecovery    = "test_recovery_email"
	ActionMemberBypass    = "member_bypass_login"
)

// AdminActionLog rows are append-only.
type AdminActionLog struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	AdminID    *uuid.UUID     `json:"admin_id,omitempty" gorm:"type:uuid;index"`
	AdminEmail string         `json:"admin_email" gorm:"size:255"`
	Action     string         `json:"action" gorm:"size:64;not null;index"`
	TargetType string         `json:"target_type" gorm:"size:32"`
	TargetID   string         `json:"target_id" gorm:"size:64;index"`
	Details    datatypes.JSON `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}

func (AdminActionLog) TableName() string { return "admin_action_logs" }

func (l *AdminActionLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
