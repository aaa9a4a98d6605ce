// Package core holds the transaction domain model shared by the ledger
// store and the aggregation engine.
//
// Monetary amounts are integer cents throughout; the sign of a
// transaction is carried by its type, never by the amount.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDecimalToCents converts a user-entered decimal amount into cents.
// Both dot and comma work as the decimal separator ("12.34" and "12,34"
// parse the same); anything past the second fractional digit rounds half
// up. Only strictly positive amounts parse; signs, zero, and any non-digit
// content return ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100 {
		return 0, ErrInvalidAmount
	}

	cents := units*100 + fracCents(frac)
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// fracCents reads up to two fractional digits as cents, rounding half up
// on the third.
func fracCents(frac string) int64 {
	var cents int64
	if len(frac) > 0 {
		cents = int64(frac[0]-'0') * 10
	}
	if len(frac) > 1 {
		cents += int64(frac[1] - '0')
	}
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}
	return cents
}

// String formats the amount as a plain decimal, e.g. "12.34".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts. The result may be negative;
// the aggregation engine uses it for the income/expense gap only.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}
