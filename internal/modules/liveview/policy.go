package liveview

import (
	"kambafy/internal/domain"

	"github.com/shopspring/decimal"
)

// CommissionPolicy computes the platform commission of one order in local currency.
// Results are rounded half-up to 2 decimals before they are summed.
type CommissionPolicy interface {
	Name() string
	Commission(o *domain.Order, amountLocal, fx decimal.Decimal) decimal.Decimal
}

// FixedRate applies one percentage to every order.
type FixedRate struct {
	Rate decimal.Decimal
}

func (FixedRate) Name() string { return "fixed_rate" }

func (p FixedRate) Commission(_ *domain.Order, amountLocal, _ decimal.Decimal) decimal.Decimal {
	return roundMoney(amountLocal.Mul(p.Rate))
}

// SellerShare derives the commission from the stored seller commission and falls back to a fixed rate.
type SellerShare struct {
	Fallback FixedRate
}

func (SellerShare) Name() string { return "seller_share" }

func (p SellerShare) Commission(o *domain.Order, amountLocal, fx decimal.Decimal) decimal.Decimal {
	if o.SellerCommission == nil {
		return p.Fallback.Commission(o, amountLocal, fx)
	}
	platform := o.Amount.Sub(*o.SellerCommission)
	if platform.IsNegative() {
		platform = decimal.Zero
	}
	return roundMoney(platform.Mul(fx))
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
