package liveview

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is pushed by the payment back end whenever an order row changes.
type OrderEvent struct {
	Type             string           `json:"type" binding:"omitempty,oneof=INSERT UPDATE"`
	ID               string           `json:"id" binding:"required,uuid"`
	ProductID        string           `json:"product_id" binding:"required,uuid"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency" binding:"required,len=3"`
	SellerCommission *decimal.Decimal `json:"seller_commission"`
	Status           string           `json:"status" binding:"required,oneof=completed pending"`
	CustomerEmail    string           `json:"customer_email" binding:"omitempty,email"`
	CustomerName     string           `json:"customer_name"`
	CustomerCountry  string           `json:"customer_country"`
	CustomerCity     string           `json:"customer_city"`
	PaymentMethod    string           `json:"payment_method"`
	CreatedAt        *time.Time       `json:"created_at"`
}

type CheckoutSessionEvent struct {
	Type      string     `json:"type" binding:"omitempty,oneof=INSERT UPDATE"`
	ID        string     `json:"id" binding:"required,uuid"`
	ProductID string     `json:"product_id" binding:"required,uuid"`
	Country   string     `json:"country"`
	Status    string     `json:"status" binding:"required,oneof=active converted abandoned"`
	CreatedAt *time.Time `json:"created_at"`
}
