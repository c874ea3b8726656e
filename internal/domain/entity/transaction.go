package entity

import (
	"errors"
	"time"
)

// Kind is the cash direction of a transaction
type Kind string

const (
	// KindIncrease adds the amount to the balance
	KindIncrease Kind = "plus"
	// KindDecrease subtracts the amount from the balance
	KindDecrease Kind = "minus"
)

var (
	ErrEmptyDescription  = errors.New("description must not be empty")
	ErrNonPositiveAmount = errors.New("amount must be a positive value")
	ErrZeroSellPrice     = errors.New("sell price must be a positive value")
	ErrNegativeCost      = errors.New("cost price must not be negative")
	ErrBeforeEpoch       = errors.New("transaction date precedes the start date")
)

// Transaction represents a single ledger entry, either a plain cash movement
// or a profit record of a sale.
//
// The JSON names match the blob layout written by earlier versions of the
// tracker, so existing data loads unchanged.
type Transaction struct {
	ID          int64     `json:"id"`
	Description string    `json:"desc"`
	Amount      int64     `json:"amount"`
	Cost        int64     `json:"modal,omitempty"`
	Sell        int64     `json:"jual,omitempty"`
	Kind        Kind      `json:"type"`
	IsProfit    bool      `json:"isProfit"`
	OccursOn    time.Time `json:"date"`
	RecordedAt  string    `json:"time"`
}

// IsIncrease reports whether the transaction is tagged as an increase.
// Anything other than KindIncrease counts as a decrease.
func (t *Transaction) IsIncrease() bool {
	return t.Kind == KindIncrease
}

// SignedValue returns the amount with its cash effect applied.
//
// Profit records carry their own sign (sell - cost), so a loss is negative
// regardless of the kind tag.
func (t *Transaction) SignedValue() int64 {
	if t.IsProfit {
		return t.Amount
	}
	if t.IsIncrease() {
		return t.Amount
	}
	return -t.Amount
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if t.IsProfit {
		if t.Sell <= 0 {
			return ErrZeroSellPrice
		}
		if t.Cost < 0 {
			return ErrNegativeCost
		}
		return nil
	}

	if t.Description == "" {
		return ErrEmptyDescription
	}

	if t.Amount <= 0 {
		return ErrNonPositiveAmount
	}

	return nil
}

// IsValidationError reports whether err is one of the input rejections above
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrZeroSellPrice) ||
		errors.Is(err, ErrNegativeCost) ||
		errors.Is(err, ErrBeforeEpoch)
}
