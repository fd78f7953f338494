// Package milestone holds the milestone entity and its status state
// machine.
package milestone

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrMilestoneNotFound is returned when a milestone cannot be found.
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrMilestoneNotApproved is returned when an escrow lock targets a
	// milestone that is not in the Approved state.
	ErrMilestoneNotApproved = errors.New("milestone is not approved")

	// ErrInvalidTransition is returned when a status change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid milestone status transition")
)

// Status is the verification lifecycle state of a milestone.
type Status string

const (
	StatusPending             Status = "pending"
	StatusActive              Status = "active"
	StatusCompleted           Status = "completed"
	StatusPendingVerification Status = "pending_verification"
	StatusApproved            Status = "approved"
	StatusRejected            Status = "rejected"
)

// transitions is the closed transition table. Approved to Pending is
// the re-opening performed by an escrow return; Rejected to Pending
// allows a rejected milestone to be re-worked.
var transitions = map[Status][]Status{
	StatusPending:             {StatusActive},
	StatusActive:              {StatusCompleted},
	StatusCompleted:           {StatusPendingVerification},
	StatusPendingVerification: {StatusApproved, StatusRejected},
	StatusApproved:            {StatusPending},
	StatusRejected:            {StatusPending},
}

// Milestone belongs to exactly one project. FundingRequired is fixed at
// creation; at most one escrow account may ever exist for a milestone,
// and only once the milestone is Approved.
type Milestone struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	Title           string
	FundingRequired money.Money
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransitionTo moves the milestone to the target status, rejecting any
// transition not in the table.
func (m *Milestone) TransitionTo(target Status) error {
	for _, next := range transitions[m.Status] {
		if next == target {
			m.Status = target
			m.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, target)
}
