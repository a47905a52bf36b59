package fx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownPair = errors.New("fx: no rate for currency pair")

// Static converts amounts with a fixed rate table, keyed "FROM/TO"
// (e.g. "EUR/USD"). When a pair is missing its inverse is tried before
// giving up. Rates are loaded once at startup; a live provider can be
// swapped in behind the same Convert signature.
type Static struct {
	rates map[string]decimal.Decimal
}

func NewStatic(rates map[string]float64) *Static {
	s := &Static{rates: make(map[string]decimal.Decimal, len(rates))}
	for pair, rate := range rates {
		if rate <= 0 {
			continue
		}
		s.rates[strings.ToUpper(strings.TrimSpace(pair))] = decimal.NewFromFloat(rate)
	}
	return s
}

// Convert returns amount * rate(from→to), rounded to 2 decimal places.
func (s *Static) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	if rate, ok := s.rates[from+"/"+to]; ok {
		return amount.Mul(rate).Round(2), nil
	}
	if inv, ok := s.rates[to+"/"+from]; ok && !inv.IsZero() {
		return amount.Div(inv).Round(2), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrUnknownPair, from, to)
}
