package withdrawal

import (
	"slices"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Balance is a seller's position in one currency. Reserved covers pending and approved requests.
type Balance struct {
	SellerID         uuid.UUID       `json:"seller_id"`
	SellerName       string          `json:"seller_name,omitempty"`
	SellerEmail      string          `json:"seller_email,omitempty"`
	Currency         string          `json:"currency"`
	Earned           decimal.Decimal `json:"earned"`
	Reserved         decimal.Decimal `json:"reserved"`
	Balance          decimal.Decimal `json:"balance"`
	RetentionPercent decimal.Decimal `json:"retention_percent"`
	Available        decimal.Decimal `json:"available"`
}

// ComputeBalance sums seller shares of completed orders in currency minus reserving
// withdrawals in the same currency, then withholds the retention percentage.
func ComputeBalance(sellerID uuid.UUID, currency string, orders []domain.Order, requests []domain.WithdrawalRequest, retention decimal.Decimal) Balance {
	currency = domain.NormalizeCurrency(currency)
	b := Balance{
		SellerID:         sellerID,
		Currency:         currency,
		Earned:           decimal.Zero,
		Reserved:         decimal.Zero,
		RetentionPercent: retention,
	}
	for i := range orders {
		if orders[i].SellerID == sellerID && domain.NormalizeCurrency(orders[i].Currency) == currency {
			b.Earned = b.Earned.Add(orders[i].SellerShare())
		}
	}
	for i := range requests {
		w := &requests[i]
		if w.SellerID == sellerID && w.Reserves() && domain.NormalizeCurrency(w.Currency) == currency {
			b.Reserved = b.Reserved.Add(w.Amount)
		}
	}
	b.Balance = b.Earned.Sub(b.Reserved)

	keep := decimal.NewFromInt(1).Sub(retention.Div(hundred))
	b.Available = b.Balance.Mul(keep).Truncate(2)
	if b.Available.IsNegative() {
		b.Available = decimal.Zero
	}
	return b
}

// ComputeBalances returns one balance per currency the seller has orders or
// withdrawals in, sorted by currency code. A seller with neither gets a single
// zero balance in the default currency.
func ComputeBalances(sellerID uuid.UUID, orders []domain.Order, requests []domain.WithdrawalRequest, retention decimal.Decimal) []Balance {
	var currencies []string
	add := func(code string) {
		code = domain.NormalizeCurrency(code)
		if !slices.Contains(currencies, code) {
			currencies = append(currencies, code)
		}
	}
	for i := range orders {
		if orders[i].SellerID == sellerID {
			add(orders[i].Currency)
		}
	}
	for i := range requests {
		if requests[i].SellerID == sellerID && requests[i].Reserves() {
			add(requests[i].Currency)
		}
	}
	if len(currencies) == 0 {
		currencies = append(currencies, domain.WithdrawalCurrency)
	}
	slices.Sort(currencies)

	out := make([]Balance, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, ComputeBalance(sellerID, c, orders, requests, retention))
	}
	return out
}
