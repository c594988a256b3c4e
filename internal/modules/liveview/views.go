package liveview

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ViewAngola     = "angola"
	ViewMozambique = "mozambique"
)

// Fixed zones keep the day boundary independent of the host's tz database.
var (
	luanda = time.FixedZone("WAT", 1*60*60)
	maputo = time.FixedZone("CAT", 2*60*60)

	mozambiqueCountries = []string{"Moçambique", "Mozambique", "MZ"}
)

// DefaultViews returns the Angola (fixed rate) and Mozambique (seller share) views.
// Angola is the home market and shows every order converted to AOA. Mozambique
// only shows its own customers and MZN-priced orders.
func DefaultViews(rate string) ([]ViewConfig, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil || r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("invalid commission rate %q", rate)
	}
	fixed := FixedRate{Rate: r}
	return []ViewConfig{
		{Name: ViewAngola, Currency: "AOA", Location: luanda, Policy: fixed},
		{Name: ViewMozambique, Currency: "MZN", Location: maputo, Policy: SellerShare{Fallback: fixed}, Countries: mozambiqueCountries},
	}, nil
}

// Registry resolves view names to their coordinators.
type Registry struct {
	coordinators map[string]*Coordinator
	order        []string
}

func NewRegistry(coordinators ...*Coordinator) *Registry {
	r := &Registry{coordinators: make(map[string]*Coordinator, len(coordinators))}
	for _, c := range coordinators {
		name := c.View().Name
		r.coordinators[name] = c
		r.order = append(r.order, name)
	}
	return r
}

func (r *Registry) Get(view string) (*Coordinator, error) {
	c, ok := r.coordinators[view]
	if !ok {
		return nil, ErrUnknownView
	}
	return c, nil
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Each(fn func(*Coordinator)) {
	for _, name := range r.order {
		fn(r.coordinators[name])
	}
}
