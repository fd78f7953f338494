// Package money provides a fixed-point monetary value object.
//
// Invariants:
//   - Amount is always stored in the smallest currency unit (cents).
//   - A Money value is never negative.
//   - Arithmetic never silently overflows.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidAmount is returned when an amount has more than two
	// decimal places or is not a finite number.
	ErrInvalidAmount = errors.New("invalid monetary amount")

	// ErrNegativeAmount is returned when a negative amount is provided
	// where only non-negative values are allowed.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrAmountExceedsMaxSafeInt is returned when an amount or an
	// arithmetic result would overflow the underlying representation.
	ErrAmountExceedsMaxSafeInt = errors.New("amount exceeds maximum safe integer value")
)

// Money represents a non-negative monetary value in the platform's
// settlement currency, stored in cents.
type Money struct {
	amount int64
}

// Zero returns the zero monetary value.
func Zero() Money {
	return Money{}
}

// New creates a Money from a float amount expressed in whole currency
// units (e.g. 12.50). Amounts with sub-cent precision are rejected
// rather than rounded so that callers can never lose money to rounding.
func New(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	cents := amount * 100
	if cents > math.MaxInt64 {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	rounded := math.Round(cents)
	if math.Abs(cents-rounded) > 1e-6 {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: int64(rounded)}, nil
}

// FromCents creates a Money from an amount already expressed in cents.
// It is intended for hydrating values from the data store.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: cents}, nil
}

// MustFromCents is FromCents for callers that know the value is valid,
// such as test fixtures. It panics on a negative amount.
func MustFromCents(cents int64) Money {
	m, err := FromCents(cents)
	if err != nil {
		panic(fmt.Sprintf("money: %v (%d)", err, cents))
	}
	return m
}

// Cents returns the amount in the smallest currency unit.
func (m Money) Cents() int64 {
	return m.amount
}

// Float returns the amount in whole currency units.
func (m Money) Float() float64 {
	return float64(m.amount) / 100
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// Equal reports whether two amounts are equal.
func (m Money) Equal(other Money) bool {
	return m.amount == other.amount
}

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool {
	return m.amount < other.amount
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) (Money, error) {
	if m.amount > math.MaxInt64-other.amount {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: m.amount + other.amount}, nil
}

// Sub returns m minus other. The result must not be negative.
func (m Money) Sub(other Money) (Money, error) {
	if other.amount > m.amount {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: m.amount - other.amount}, nil
}

// String formats the amount in whole currency units.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.amount/100, m.amount%100)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Float())
}
