package core

import (
	"errors"
	"strings"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the closed two-variant transaction type. Raw input is
	// normalized once at the boundary; the rest of the code never
	// compares free-form strings.
	TxType string

	Money struct {
		Cents int64
	}

	// Transaction is the sole persisted entity. ID is assigned by the
	// store and never reused, even after deletion.
	Transaction struct {
		ID            int64
		Date          Date
		Amount        Money
		Type          TxType
		Category      string
		PaymentMethod string // optional, freeform (Cash/Card/UPI/Wallet are suggestions)
		Tags          string // optional freeform annotation
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
)

// ParseTxType normalizes a raw type string. Input is case-insensitive;
// anything other than income/expense is rejected.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Income):
		return Income, nil
	case string(Expense):
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	return nil
}
