// Package wallet holds the per-user spendable balance entity.
//
// A wallet is mutated only through Credit and Debit, and only from
// inside a unit of work that also writes the matching ledger entry.
package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrWalletNotFound is returned when a wallet cannot be found.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive is returned when a credit or debit amount
	// is not strictly positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")
)

// Wallet represents a user's spendable balance. The balance can never
// be negative; a debit that would overdraw fails without mutation.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   money.Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a wallet for the given user with a zero balance.
func New(userID uuid.UUID) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   money.Zero(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Credit adds amount to the balance.
func (w *Wallet) Credit(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	balance, err := w.Balance.Add(amount)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit removes amount from the balance. It fails with
// ErrInsufficientFunds if the balance is smaller than amount.
func (w *Wallet) Debit(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	balance, err := w.Balance.Sub(amount)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	return nil
}
