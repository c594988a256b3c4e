package liveview

import (
	"slices"
	"strings"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	topSellerCount = 5
	unknownCountry = "Desconhecido"
)

// ViewConfig describes one live dashboard.
type ViewConfig struct {
	Name     string
	Currency string
	Location *time.Location
	Policy   CommissionPolicy
	// Countries restricts the view to orders and checkout sessions from these
	// customer countries. Orders priced in Currency always belong to the view.
	// Empty means every country.
	Countries []string
}

// Includes reports whether an order belongs to the view.
func (v ViewConfig) Includes(o *domain.Order) bool {
	if len(v.Countries) == 0 || strings.EqualFold(o.Currency, v.Currency) {
		return true
	}
	return v.inCountry(o.CustomerCountry)
}

func (v ViewConfig) inCountry(country string) bool {
	if len(v.Countries) == 0 {
		return true
	}
	country = strings.TrimSpace(country)
	return slices.ContainsFunc(v.Countries, func(c string) bool { return strings.EqualFold(c, country) })
}

type SellerRevenue struct {
	SellerID uuid.UUID       `json:"seller_id"`
	Name     string          `json:"name,omitempty"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int             `json:"orders"`
}

type Snapshot struct {
	View                    string          `json:"view"`
	Currency                string          `json:"currency"`
	Policy                  string          `json:"commission_policy"`
	Since                   time.Time       `json:"since"`
	ComputedAt              time.Time       `json:"computed_at"`
	TotalSales              decimal.Decimal `json:"total_sales"`
	Commission              decimal.Decimal `json:"commission"`
	CompletedOrders         int             `json:"completed_orders"`
	PendingOrders           int             `json:"pending_orders"`
	OrdersByCountry         map[string]int  `json:"orders_by_country"`
	ActiveSessionsByCountry map[string]int  `json:"active_sessions_by_country"`
	TopSellers              []SellerRevenue `json:"top_sellers"`
	SkippedOrders           int             `json:"skipped_orders"`
	Stale                   bool            `json:"stale"`
	LastError               string          `json:"last_error,omitempty"`
}

// Aggregate recomputes a view from the day's orders and checkout sessions.
// Orders in a currency without a rate are counted in SkippedOrders only.
func Aggregate(orders []domain.Order, sessions []domain.CheckoutSession, rates RateProvider, view ViewConfig) Snapshot {
	snap := Snapshot{
		View:                    view.Name,
		Currency:                view.Currency,
		Policy:                  view.Policy.Name(),
		TotalSales:              decimal.Zero,
		Commission:              decimal.Zero,
		OrdersByCountry:         map[string]int{},
		ActiveSessionsByCountry: map[string]int{},
		TopSellers:              []SellerRevenue{},
	}

	sellers := map[uuid.UUID]*SellerRevenue{}
	for i := range orders {
		o := &orders[i]
		if !view.Includes(o) {
			continue
		}
		if o.Status != domain.OrderCompleted {
			if o.Status == domain.OrderPending {
				snap.PendingOrders++
			}
			continue
		}

		fx, ok := rates.Rate(o.Currency, view.Currency)
		if !ok {
			snap.SkippedOrders++
			continue
		}

		local := roundMoney(o.Amount.Mul(fx))
		snap.CompletedOrders++
		snap.TotalSales = snap.TotalSales.Add(local)
		snap.Commission = snap.Commission.Add(view.Policy.Commission(o, local, fx))
		snap.OrdersByCountry[countryKey(o.CustomerCountry)]++

		s := sellers[o.SellerID]
		if s == nil {
			s = &SellerRevenue{SellerID: o.SellerID, Revenue: decimal.Zero}
			sellers[o.SellerID] = s
		}
		s.Revenue = s.Revenue.Add(local)
		s.Orders++
	}

	for _, s := range sessions {
		if s.Status == domain.CheckoutActive && view.inCountry(s.Country) {
			snap.ActiveSessionsByCountry[countryKey(s.Country)]++
		}
	}

	ranked := make([]SellerRevenue, 0, len(sellers))
	for _, s := range sellers {
		ranked = append(ranked, *s)
	}
	slices.SortFunc(ranked, func(a, b SellerRevenue) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return strings.Compare(a.SellerID.String(), b.SellerID.String())
	})
	if len(ranked) > topSellerCount {
		ranked = ranked[:topSellerCount]
	}
	snap.TopSellers = ranked
	return snap
}

// StartOfDay is local midnight of now in loc, expressed in UTC.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	l := now.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc).UTC()
}

func countryKey(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return unknownCountry
	}
	return c
}
