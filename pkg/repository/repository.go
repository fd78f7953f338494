// Package repository defines the data-access contracts for the escrow
// engine and the UnitOfWork transaction boundary.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/domain/wallet"
)

// WalletRepository defines data access for wallets. GetForUpdate must
// acquire a row lock so concurrent debits of the same wallet are
// linearized by the store.
type WalletRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	Create(ctx context.Context, w *wallet.Wallet) error
	Update(ctx context.Context, w *wallet.Wallet) error
}

// ProjectRepository defines data access for project funding pools.
type ProjectRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*project.Project, error)
	Create(ctx context.Context, p *project.Project) error
	Update(ctx context.Context, p *project.Project) error
}

// MilestoneRepository defines data access for milestones.
type MilestoneRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error)
	Create(ctx context.Context, m *milestone.Milestone) error
	Update(ctx context.Context, m *milestone.Milestone) error
}

// EscrowRepository defines data access for escrow accounts.
type EscrowRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*escrow.Account, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Account, error)
	GetByMilestone(ctx context.Context, milestoneID uuid.UUID) (*escrow.Account, error)
	Create(ctx context.Context, a *escrow.Account) error
	Update(ctx context.Context, a *escrow.Account) error
}

// DisputeRepository defines data access for disputes.
type DisputeRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*escrow.Dispute, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Dispute, error)
	OpenExistsForEscrow(ctx context.Context, escrowAccountID uuid.UUID) (bool, error)
	Create(ctx context.Context, d *escrow.Dispute) error
	Update(ctx context.Context, d *escrow.Dispute) error
}

// TransactionRepository defines data access for the transaction log.
type TransactionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	Create(ctx context.Context, t *ledger.Transaction) error
	Update(ctx context.Context, t *ledger.Transaction) error
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*ledger.Transaction, error)
}

// InvestmentRepository defines data access for investment records.
type InvestmentRepository interface {
	Create(ctx context.Context, inv *project.Investment) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*project.Investment, error)
}
