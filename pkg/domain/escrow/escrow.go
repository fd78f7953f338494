// Package escrow holds the escrow account and dispute entities.
//
// An escrow account earmarks one milestone's funds out of the project
// pool. Once its status leaves Locked it is terminal: no further fund
// movement may reference it.
package escrow

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrEscrowNotFound is returned when an escrow account cannot be found.
	ErrEscrowNotFound = errors.New("escrow account not found")

	// ErrEscrowAlreadyExists is returned when a milestone already has an
	// escrow account.
	ErrEscrowAlreadyExists = errors.New("escrow account already exists for milestone")

	// ErrEscrowAlreadySettled is returned when a release or return
	// targets an escrow that is no longer Locked.
	ErrEscrowAlreadySettled = errors.New("escrow account already settled")

	// ErrEscrowNotLocked is returned when a dispute operation targets an
	// escrow that is not Locked.
	ErrEscrowNotLocked = errors.New("escrow account is not locked")

	// ErrAmountMismatch is returned when an escrow lock amount differs
	// from the milestone's required funding.
	ErrAmountMismatch = errors.New("amount does not match milestone funding requirement")

	// ErrInvalidPartialAmount is returned when a partial release amount
	// is not strictly between zero and the escrowed amount.
	ErrInvalidPartialAmount = errors.New("partial amount must be between zero and the escrowed amount")
)

// Status is the settlement state of an escrow account. Locked is the
// only non-terminal state.
type Status string

const (
	StatusLocked            Status = "locked"
	StatusReleased          Status = "released"
	StatusReturned          Status = "returned"
	StatusPartiallyReleased Status = "partially_released"
)

// Account represents funds earmarked for one milestone, withheld from
// the project pool until release or return.
type Account struct {
	ID            uuid.UUID
	MilestoneID   uuid.UUID
	ProjectID     uuid.UUID
	Amount        money.Money
	Status        Status
	ReleasedBy    *uuid.UUID
	ReleasedAt    *time.Time
	ReturnReason  string
	PartialAmount *money.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount locks amount for the given milestone.
func NewAccount(milestoneID, projectID uuid.UUID, amount money.Money) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:          uuid.New(),
		MilestoneID: milestoneID,
		ProjectID:   projectID,
		Amount:      amount,
		Status:      StatusLocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Locked reports whether the escrow still holds its funds.
func (a *Account) Locked() bool {
	return a.Status == StatusLocked
}

// Release settles the escrow in the innovator's favour.
func (a *Account) Release(approver uuid.UUID) error {
	if !a.Locked() {
		return ErrEscrowAlreadySettled
	}
	now := time.Now().UTC()
	a.Status = StatusReleased
	a.ReleasedBy = &approver
	a.ReleasedAt = &now
	a.UpdatedAt = now
	return nil
}

// Return settles the escrow back into the project pool.
func (a *Account) Return(approver uuid.UUID, reason string) error {
	if !a.Locked() {
		return ErrEscrowAlreadySettled
	}
	now := time.Now().UTC()
	a.Status = StatusReturned
	a.ReleasedBy = &approver
	a.ReleasedAt = &now
	a.ReturnReason = reason
	a.UpdatedAt = now
	return nil
}

// PartialRelease settles the escrow with amount going to the innovator
// and the remainder back to the pool. The amount must be strictly
// between zero and the escrowed amount.
func (a *Account) PartialRelease(approver uuid.UUID, amount money.Money) error {
	if !a.Locked() {
		return ErrEscrowAlreadySettled
	}
	if !amount.IsPositive() || !amount.LessThan(a.Amount) {
		return ErrInvalidPartialAmount
	}
	now := time.Now().UTC()
	a.Status = StatusPartiallyReleased
	a.ReleasedBy = &approver
	a.ReleasedAt = &now
	a.PartialAmount = &amount
	a.UpdatedAt = now
	return nil
}

// Remainder returns the pool share of a partial release.
func (a *Account) Remainder() (money.Money, error) {
	if a.PartialAmount == nil {
		return money.Zero(), ErrInvalidPartialAmount
	}
	return a.Amount.Sub(*a.PartialAmount)
}
