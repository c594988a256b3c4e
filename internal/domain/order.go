package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderPending   OrderStatus = "pending"
)

// DefaultCommissionRate is the platform share applied when an order carries no stored seller commission.
var DefaultCommissionRate = decimal.RequireFromString("0.0899")

type Order struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID        uuid.UUID        `json:"product_id" gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID        `json:"seller_id" gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal  `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency         string           `json:"currency" gorm:"size:3;not null"`
	SellerCommission *decimal.Decimal `json:"seller_commission,omitempty" gorm:"type:numeric(14,2)"`
	Status           OrderStatus      `json:"status" gorm:"type:varchar(16);not null;index"`
	CustomerEmail    string           `json:"customer_email" gorm:"size:255;index"`
	CustomerName     string           `json:"customer_name" gorm:"size:255"`
	CustomerCountry  string           `json:"customer_country" gorm:"size:64;index"`
	CustomerCity     string           `json:"customer_city" gorm:"size:128"`
	PaymentMethod    string           `json:"payment_method" gorm:"size:64"`
	CreatedAt        time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// SellerShare is the stored seller commission, or the amount net of DefaultCommissionRate.
func (o *Order) SellerShare() decimal.Decimal {
	if o.SellerCommission != nil {
		return *o.SellerCommission
	}
	return o.Amount.Mul(decimal.NewFromInt(1).Sub(DefaultCommissionRate)).Round(2)
}

type CheckoutStatus string

const (
	CheckoutActive    CheckoutStatus = "active"
	CheckoutConverted CheckoutStatus = "converted"
	CheckoutAbandoned CheckoutStatus = "abandoned"
)

type CheckoutSession struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	Country   string         `json:"country" gorm:"size:64;index"`
	Status    CheckoutStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (CheckoutSession) TableName() string { return "checkout_sessions" }

func (c *CheckoutSession) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
