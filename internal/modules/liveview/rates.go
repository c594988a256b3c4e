package liveview

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateProvider converts one unit of from into units of to.
type RateProvider interface {
	Rate(from, to string) (decimal.Decimal, bool)
}

// StaticRates is a fixed table keyed by local currency, then foreign currency.
type StaticRates struct {
	table map[string]map[string]decimal.Decimal
}

func DefaultRates() *StaticRates {
	return &StaticRates{table: map[string]map[string]decimal.Decimal{
		"AOA": {
			"EUR": decimal.NewFromInt(1100),
			"USD": decimal.NewFromInt(950),
			"MZN": decimal.RequireFromString("14.8"),
			"BRL": decimal.NewFromInt(170),
		},
		"MZN": {
			"EUR": decimal.RequireFromString("74.5"),
			"USD": decimal.RequireFromString("63.9"),
			"AOA": decimal.RequireFromString("0.0676"),
			"BRL": decimal.RequireFromString("11.5"),
		},
	}}
}

// Override replaces entries of the local table from "EUR=1100,USD=950".
func (s *StaticRates) Override(local, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := ParseRates(raw)
	if err != nil {
		return fmt.Errorf("rates for %s: %w", local, err)
	}
	local = strings.ToUpper(local)
	if s.table[local] == nil {
		s.table[local] = make(map[string]decimal.Decimal, len(parsed))
	}
	for cur, rate := range parsed {
		s.table[local][cur] = rate
	}
	return nil
}

func (s *StaticRates) Rate(from, to string) (decimal.Decimal, bool) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.table[to][from]
	return r, ok
}

func ParseRates(raw string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		cur, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("invalid rate in %q", pair)
		}
		out[strings.ToUpper(strings.TrimSpace(cur))] = rate
	}
	return out, nil
}
