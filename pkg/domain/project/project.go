// Package project holds the project funding pool entity and its
// funding-status rules.
package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/money"
)

var (
	// ErrProjectNotFound is returned when a project cannot be found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectNotFundable is returned when an investment targets a
	// project that is not open for funding.
	ErrProjectNotFundable = errors.New("project is not open for funding")

	// ErrBelowMinimumInvestment is returned when an investment amount is
	// below the project's configured minimum.
	ErrBelowMinimumInvestment = errors.New("amount is below the project's minimum investment")

	// ErrInsufficientPoolFunds is returned when the funding pool does not
	// cover a requested escrow lock.
	ErrInsufficientPoolFunds = errors.New("insufficient funds in project pool")
)

// Status is the funding lifecycle state of a project.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusSeekingFunding  Status = "seeking_funding"
	StatusPartiallyFunded Status = "partially_funded"
	StatusFullyFunded     Status = "fully_funded"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// Project represents a funding pool: the aggregate, not-yet-escrowed
// capital raised for one innovation project.
//
// CurrentFunding equals the sum of completed investments, minus funds
// moved into escrow, plus funds returned from escrow. It is never
// negative. Overfunding is allowed and rounds the status up to
// FullyFunded.
type Project struct {
	ID             uuid.UUID
	InnovatorID    uuid.UUID
	Title          string
	FundingGoal    money.Money
	CurrentFunding money.Money
	MinInvestment  money.Money
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Fundable reports whether the project currently accepts investments.
func (p *Project) Fundable() bool {
	return p.Status == StatusSeekingFunding || p.Status == StatusPartiallyFunded
}

// ApplyInvestment validates and applies an investment of amount to the
// funding pool, recomputing the funding status.
func (p *Project) ApplyInvestment(amount money.Money) error {
	if !p.Fundable() {
		return ErrProjectNotFundable
	}
	if amount.LessThan(p.MinInvestment) {
		return ErrBelowMinimumInvestment
	}
	funding, err := p.CurrentFunding.Add(amount)
	if err != nil {
		return err
	}
	p.CurrentFunding = funding
	if p.CurrentFunding.LessThan(p.FundingGoal) {
		p.Status = StatusPartiallyFunded
	} else {
		p.Status = StatusFullyFunded
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// DebitPool moves amount out of the funding pool, for an escrow lock.
func (p *Project) DebitPool(amount money.Money) error {
	if p.CurrentFunding.LessThan(amount) {
		return ErrInsufficientPoolFunds
	}
	funding, err := p.CurrentFunding.Sub(amount)
	if err != nil {
		return err
	}
	p.CurrentFunding = funding
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CreditPool moves amount back into the funding pool, for an escrow
// return or the pool share of a partial release.
func (p *Project) CreditPool(amount money.Money) error {
	funding, err := p.CurrentFunding.Add(amount)
	if err != nil {
		return err
	}
	p.CurrentFunding = funding
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Investment links an investor to a project for one completed
// investment.
type Investment struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	InvestorID uuid.UUID
	Amount     money.Money
	CreatedAt  time.Time
}

// NewInvestment records a completed investment.
func NewInvestment(projectID, investorID uuid.UUID, amount money.Money) *Investment {
	return &Investment{
		ID:         uuid.New(),
		ProjectID:  projectID,
		InvestorID: investorID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
}
