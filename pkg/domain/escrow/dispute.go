package escrow

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrDisputeNotFound is returned when a dispute cannot be found.
	ErrDisputeNotFound = errors.New("dispute not found")

	// ErrDisputeAlreadyResolved is returned when a resolution targets a
	// dispute that is not Open.
	ErrDisputeAlreadyResolved = errors.New("dispute already resolved")

	// ErrOpenDisputeExists is returned when an escrow already has an open
	// dispute.
	ErrOpenDisputeExists = errors.New("an open dispute already exists for this escrow")

	// ErrEscrowDisputed is returned when a direct release or return
	// targets an escrow under an open dispute; resolving the dispute is
	// the only path that settles a disputed escrow.
	ErrEscrowDisputed = errors.New("escrow is under an open dispute")

	// ErrInvalidResolutionAction is returned for an unknown resolution
	// action.
	ErrInvalidResolutionAction = errors.New("invalid resolution action")
)

// DisputeStatus is the lifecycle state of a dispute.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
)

// ResolutionAction is the arbitration outcome applied to the escrow.
type ResolutionAction string

const (
	ResolutionRelease        ResolutionAction = "release"
	ResolutionReturn         ResolutionAction = "return"
	ResolutionPartialRelease ResolutionAction = "partial_release"
)

// Valid reports whether the action is one of the known outcomes.
func (a ResolutionAction) Valid() bool {
	switch a {
	case ResolutionRelease, ResolutionReturn, ResolutionPartialRelease:
		return true
	}
	return false
}

// Dispute belongs to exactly one escrow account. A dispute may only be
// opened while its escrow is Locked, is resolved at most once, and
// resolving it is the sole path that settles a disputed escrow.
type Dispute struct {
	ID               uuid.UUID
	EscrowAccountID  uuid.UUID
	RaisedBy         uuid.UUID
	Reason           string
	Description      string
	Status           DisputeStatus
	Resolution       string
	ResolutionAction ResolutionAction
	ResolutionAmount *money.Money
	ResolvedBy       *uuid.UUID
	ResolvedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewDispute opens a dispute against a locked escrow.
func NewDispute(escrowAccountID, raisedBy uuid.UUID, reason, description string) *Dispute {
	now := time.Now().UTC()
	return &Dispute{
		ID:              uuid.New(),
		EscrowAccountID: escrowAccountID,
		RaisedBy:        raisedBy,
		Reason:          reason,
		Description:     description,
		Status:          DisputeOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Resolve closes the dispute with the given outcome. amount is set only
// for partial releases.
func (d *Dispute) Resolve(resolver uuid.UUID, action ResolutionAction, resolution string, amount *money.Money) error {
	if d.Status != DisputeOpen {
		return ErrDisputeAlreadyResolved
	}
	if !action.Valid() {
		return ErrInvalidResolutionAction
	}
	now := time.Now().UTC()
	d.Status = DisputeResolved
	d.ResolutionAction = action
	d.Resolution = resolution
	d.ResolutionAmount = amount
	d.ResolvedBy = &resolver
	d.ResolvedAt = &now
	d.UpdatedAt = now
	return nil
}
