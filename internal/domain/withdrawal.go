package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pendente"
	WithdrawalApproved WithdrawalStatus = "aprovado"
	WithdrawalRejected WithdrawalStatus = "rejeitado"
)

type WithdrawalRequest struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID        `json:"seller_id" gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal  `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency    string           `json:"currency" gorm:"size:3;not null;default:'AOA';index"`
	Status      WithdrawalStatus `json:"status" gorm:"type:varchar(16);not null;default:'pendente';index"`
	AdminID     *uuid.UUID       `json:"admin_id,omitempty" gorm:"type:uuid"`
	AdminNotes  string           `json:"admin_notes,omitempty" gorm:"type:text"`
	RequestedAt time.Time        `json:"requested_at" gorm:"not null;index"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }

func (w *WithdrawalRequest) BeforeCreate(_ *gorm.DB) error {
	ensureID(&w.ID)
	w.Currency = NormalizeCurrency(w.Currency)
	if w.RequestedAt.IsZero() {
		w.RequestedAt = time.Now().UTC()
	}
	return nil
}

// Reserves reports whether the request still counts against the seller balance.
func (w *WithdrawalRequest) Reserves() bool {
	return w.Status == WithdrawalPending || w.Status == WithdrawalApproved
}

// WithdrawalCurrency is used when a request or order carries no currency.
const WithdrawalCurrency = "AOA"

// NormalizeCurrency upper-cases a currency code, defaulting to WithdrawalCurrency.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return WithdrawalCurrency
	}
	return code
}
