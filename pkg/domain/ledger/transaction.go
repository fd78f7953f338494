// Package ledger holds the transaction log entity: an append-mostly
// record of every balance-affecting event.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlreadySettled is returned when settle targets a transaction
	// that is not pending.
	ErrAlreadySettled = errors.New("transaction already settled")

	// ErrNotSettleable is returned when settle targets a transaction type
	// that is written completed in a single phase.
	ErrNotSettleable = errors.New("transaction type does not use two-phase settlement")
)

// Type identifies the balance-affecting event a transaction documents.
type Type string

const (
	TypeInvestment           Type = "investment"
	TypeDeposit              Type = "deposit"
	TypeWithdrawal           Type = "withdrawal"
	TypeEscrowLock           Type = "escrow_lock"
	TypeEscrowRelease        Type = "escrow_release"
	TypeEscrowReturn         Type = "escrow_return"
	TypeEscrowPartialRelease Type = "escrow_partial_release"
)

// TwoPhase reports whether the type starts pending and requires an
// external settlement, as opposed to system-internal movements written
// already completed.
func (t Type) TwoPhase() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Status is the settlement state of a transaction. Completed and
// rejected are terminal; a completed transaction is immutable.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Transaction is one row of the transaction log. WalletID is nil for
// pool-level movements (escrow lock and return) that touch no wallet.
// ProjectID and EscrowAccountID tie the row to the entity it moved
// money for.
type Transaction struct {
	ID              uuid.UUID
	WalletID        *uuid.UUID
	ProjectID       *uuid.UUID
	EscrowAccountID *uuid.UUID
	Type            Type
	Status          Status
	Amount          money.Money
	Notes           string
	SettledBy       *uuid.UUID
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// NewPending creates a two-phase transaction awaiting settlement.
func NewPending(walletID uuid.UUID, txType Type, amount money.Money, notes string) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		WalletID:  &walletID,
		Type:      txType,
		Status:    StatusPending,
		Amount:    amount,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}
}

// NewCompleted creates a system-internal transaction written directly
// in the completed state, in the same atomic unit as the balance or
// state change it documents.
func NewCompleted(walletID, projectID, escrowAccountID *uuid.UUID, txType Type, amount money.Money, notes string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:              uuid.New(),
		WalletID:        walletID,
		ProjectID:       projectID,
		EscrowAccountID: escrowAccountID,
		Type:            txType,
		Status:          StatusCompleted,
		Amount:          amount,
		Notes:           notes,
		CompletedAt:     &now,
		CreatedAt:       now,
	}
}

// Settle transitions a pending transaction to completed or rejected.
// The balance delta is applied by the caller inside the same unit of
// work; a rejected transaction never touches a balance.
func (t *Transaction) Settle(approved bool, approver uuid.UUID) error {
	if !t.Type.TwoPhase() {
		return ErrNotSettleable
	}
	if t.Status != StatusPending {
		return ErrAlreadySettled
	}
	now := time.Now().UTC()
	if approved {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusRejected
	}
	t.SettledBy = &approver
	t.CompletedAt = &now
	return nil
}
