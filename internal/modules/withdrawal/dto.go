package withdrawal

import "github.com/shopspring/decimal"

type CreateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type DecisionRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}
