// Package fx implements the settings panel's currency conversion utility.
// Rates are fixed constants, not a live feed; the converter exists for
// quick what-is-that-in-dollars checks next to the ledger.
package fx

import (
	"errors"
	"strings"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
)

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

// inrPerUSD is the fixed conversion rate, in hundredths (91.00 INR per USD).
const inrPerUSD = 9100

type Currency string

var ErrUnknownCurrency = errors.New("unknown currency")

// ParseCurrency normalizes a currency code.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(INR):
		return INR, nil
	case string(USD):
		return USD, nil
	default:
		return "", ErrUnknownCurrency
	}
}

// Convert converts an amount between the supported currencies. Same-currency
// conversion is the identity. Results are rounded half-up to the cent.
func Convert(amount core.Money, from, to Currency) (core.Money, error) {
	if err := validate(from); err != nil {
		return core.Money{}, err
	}
	if err := validate(to); err != nil {
		return core.Money{}, err
	}
	if from == to {
		return amount, nil
	}

	switch {
	case from == USD && to == INR:
		return core.Money{Cents: amount.Cents * inrPerUSD / 100}, nil
	case from == INR && to == USD:
		return core.Money{Cents: divRound(amount.Cents*100, inrPerUSD)}, nil
	default:
		return core.Money{}, ErrUnknownCurrency
	}
}

func validate(c Currency) error {
	switch c {
	case INR, USD:
		return nil
	default:
		return ErrUnknownCurrency
	}
}

func divRound(n, d int64) int64 {
	return (n + d/2) / d
}
