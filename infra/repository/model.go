package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
)

// Wallet represents a wallet record in the database. Balances are
// stored as integer cents.
type Wallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project represents a project funding pool record.
type Project struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	InnovatorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title          string    `gorm:"not null"`
	FundingGoal    int64     `gorm:"not null"`
	CurrentFunding int64     `gorm:"not null;default:0"`
	MinInvestment  int64     `gorm:"not null;default:0"`
	Status         string    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Milestone represents a milestone record.
type Milestone struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	ProjectID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Title           string    `gorm:"not null"`
	FundingRequired int64     `gorm:"not null"`
	Status          string    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EscrowAccount represents an escrow account record. MilestoneID has a
// unique index so a second lock on the same milestone fails at the
// store even when two requests race past the service check.
type EscrowAccount struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	MilestoneID   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	ProjectID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Amount        int64      `gorm:"not null"`
	Status        string     `gorm:"not null"`
	ReleasedBy    *uuid.UUID `gorm:"type:uuid"`
	ReleasedAt    *time.Time
	ReturnReason  string `gorm:"not null;default:''"`
	PartialAmount *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Dispute represents a dispute record. A partial unique index (see the
// migrations) enforces at most one open dispute per escrow.
type Dispute struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	EscrowAccountID  uuid.UUID `gorm:"type:uuid;index;not null"`
	RaisedBy         uuid.UUID `gorm:"type:uuid;not null"`
	Reason           string    `gorm:"not null;default:''"`
	Description      string    `gorm:"not null;default:''"`
	Status           string    `gorm:"not null"`
	Resolution       string    `gorm:"not null;default:''"`
	ResolutionAction *string
	ResolutionAmount *int64
	ResolvedBy       *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transaction represents an entry in the append-only transaction log.
// WalletID is null for pool-to-escrow movements.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	WalletID        *uuid.UUID `gorm:"type:uuid;index"`
	ProjectID       *uuid.UUID `gorm:"type:uuid"`
	EscrowAccountID *uuid.UUID `gorm:"type:uuid;index"`
	Type            string     `gorm:"not null"`
	Status          string     `gorm:"not null"`
	Amount          int64      `gorm:"not null"`
	Notes           string     `gorm:"not null;default:''"`
	SettledBy       *uuid.UUID `gorm:"type:uuid"`
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// Investment represents a completed investment record.
type Investment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null"`
	InvestorID uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount     int64     `gorm:"not null"`
	CreatedAt  time.Time
}

func walletToModel(w *wallet.Wallet) Wallet {
	return Wallet{
		ID:        w.ID,
		UserID:    w.UserID,
		Balance:   w.Balance.Cents(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func walletToDomain(m *Wallet) *wallet.Wallet {
	return &wallet.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		Balance:   money.MustFromCents(m.Balance),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func projectToModel(p *project.Project) Project {
	return Project{
		ID:             p.ID,
		InnovatorID:    p.InnovatorID,
		Title:          p.Title,
		FundingGoal:    p.FundingGoal.Cents(),
		CurrentFunding: p.CurrentFunding.Cents(),
		MinInvestment:  p.MinInvestment.Cents(),
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func projectToDomain(m *Project) *project.Project {
	return &project.Project{
		ID:             m.ID,
		InnovatorID:    m.InnovatorID,
		Title:          m.Title,
		FundingGoal:    money.MustFromCents(m.FundingGoal),
		CurrentFunding: money.MustFromCents(m.CurrentFunding),
		MinInvestment:  money.MustFromCents(m.MinInvestment),
		Status:         project.Status(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func milestoneToModel(ms *milestone.Milestone) Milestone {
	return Milestone{
		ID:              ms.ID,
		ProjectID:       ms.ProjectID,
		Title:           ms.Title,
		FundingRequired: ms.FundingRequired.Cents(),
		Status:          string(ms.Status),
		CreatedAt:       ms.CreatedAt,
		UpdatedAt:       ms.UpdatedAt,
	}
}

func milestoneToDomain(m *Milestone) *milestone.Milestone {
	return &milestone.Milestone{
		ID:              m.ID,
		ProjectID:       m.ProjectID,
		Title:           m.Title,
		FundingRequired: money.MustFromCents(m.FundingRequired),
		Status:          milestone.Status(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func escrowToModel(a *escrow.Account) EscrowAccount {
	m := EscrowAccount{
		ID:           a.ID,
		MilestoneID:  a.MilestoneID,
		ProjectID:    a.ProjectID,
		Amount:       a.Amount.Cents(),
		Status:       string(a.Status),
		ReleasedBy:   a.ReleasedBy,
		ReleasedAt:   a.ReleasedAt,
		ReturnReason: a.ReturnReason,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.PartialAmount != nil {
		cents := a.PartialAmount.Cents()
		m.PartialAmount = &cents
	}
	return m
}

func escrowToDomain(m *EscrowAccount) *escrow.Account {
	a := &escrow.Account{
		ID:           m.ID,
		MilestoneID:  m.MilestoneID,
		ProjectID:    m.ProjectID,
		Amount:       money.MustFromCents(m.Amount),
		Status:       escrow.Status(m.Status),
		ReleasedBy:   m.ReleasedBy,
		ReleasedAt:   m.ReleasedAt,
		ReturnReason: m.ReturnReason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.PartialAmount != nil {
		partial := money.MustFromCents(*m.PartialAmount)
		a.PartialAmount = &partial
	}
	return a
}

func disputeToModel(d *escrow.Dispute) Dispute {
	m := Dispute{
		ID:              d.ID,
		EscrowAccountID: d.EscrowAccountID,
		RaisedBy:        d.RaisedBy,
		Reason:          d.Reason,
		Description:     d.Description,
		Status:          string(d.Status),
		Resolution:      d.Resolution,
		ResolvedBy:      d.ResolvedBy,
		ResolvedAt:      d.ResolvedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.ResolutionAction != "" {
		action := string(d.ResolutionAction)
		m.ResolutionAction = &action
	}
	if d.ResolutionAmount != nil {
		cents := d.ResolutionAmount.Cents()
		m.ResolutionAmount = &cents
	}
	return m
}

func disputeToDomain(m *Dispute) *escrow.Dispute {
	d := &escrow.Dispute{
		ID:              m.ID,
		EscrowAccountID: m.EscrowAccountID,
		RaisedBy:        m.RaisedBy,
		Reason:          m.Reason,
		Description:     m.Description,
		Status:          escrow.DisputeStatus(m.Status),
		Resolution:      m.Resolution,
		ResolvedBy:      m.ResolvedBy,
		ResolvedAt:      m.ResolvedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ResolutionAction != nil {
		d.ResolutionAction = escrow.ResolutionAction(*m.ResolutionAction)
	}
	if m.ResolutionAmount != nil {
		amount := money.MustFromCents(*m.ResolutionAmount)
		d.ResolutionAmount = &amount
	}
	return d
}

func transactionToModel(t *ledger.Transaction) Transaction {
	return Transaction{
		ID:              t.ID,
		WalletID:        t.WalletID,
		ProjectID:       t.ProjectID,
		EscrowAccountID: t.EscrowAccountID,
		Type:            string(t.Type),
		Status:          string(t.Status),
		Amount:          t.Amount.Cents(),
		Notes:           t.Notes,
		SettledBy:       t.SettledBy,
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
	}
}

func transactionToDomain(m *Transaction) *ledger.Transaction {
	return &ledger.Transaction{
		ID:              m.ID,
		WalletID:        m.WalletID,
		ProjectID:       m.ProjectID,
		EscrowAccountID: m.EscrowAccountID,
		Type:            ledger.Type(m.Type),
		Status:          ledger.Status(m.Status),
		Amount:          money.MustFromCents(m.Amount),
		Notes:           m.Notes,
		SettledBy:       m.SettledBy,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
	}
}

func investmentToModel(inv *project.Investment) Investment {
	return Investment{
		ID:         inv.ID,
		ProjectID:  inv.ProjectID,
		InvestorID: inv.InvestorID,
		Amount:     inv.Amount.Cents(),
		CreatedAt:  inv.CreatedAt,
	}
}

func investmentToDomain(m *Investment) *project.Investment {
	return &project.Investment{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		InvestorID: m.InvestorID,
		Amount:     money.MustFromCents(m.Amount),
		CreatedAt:  m.CreatedAt,
	}
}
