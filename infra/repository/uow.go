package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
)

// Repository names for the registry.
const (
	WalletRepositoryName      = "wallet"
	ProjectRepositoryName     = "project"
	MilestoneRepositoryName   = "milestone"
	EscrowRepositoryName      = "escrow"
	DisputeRepositoryName     = "dispute"
	TransactionRepositoryName = "transaction"
	InvestmentRepositoryName  = "investment"
)

// UoW provides the transaction boundary over a *gorm.DB. Inside Do the
// repositories bind to the transaction session; outside Do they bind
// to the root session, which serves single-read accessors.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[string]func(*gorm.DB) any
}

// NewUoW creates a unit of work for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[string]func(*gorm.DB) any{
			WalletRepositoryName:      func(db *gorm.DB) any { return NewWalletRepository(db) },
			ProjectRepositoryName:     func(db *gorm.DB) any { return NewProjectRepository(db) },
			MilestoneRepositoryName:   func(db *gorm.DB) any { return NewMilestoneRepository(db) },
			EscrowRepositoryName:      func(db *gorm.DB) any { return NewEscrowRepository(db) },
			DisputeRepositoryName:     func(db *gorm.DB) any { return NewDisputeRepository(db) },
			TransactionRepositoryName: func(db *gorm.DB) any { return NewTransactionRepository(db) },
			InvestmentRepositoryName:  func(db *gorm.DB) any { return NewInvestmentRepository(db) },
		},
	}
}

// Do runs fn inside a serializable database transaction. fn receives a
// UoW whose repositories share the transaction session; returning an
// error rolls every write back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// GetRepository returns a repository by name, bound to the current
// transaction or, outside Do, to the root session.
func (u *UoW) GetRepository(repoName string) (any, error) {
	constructor, ok := u.repoRegistry[repoName]
	if !ok {
		return nil, fmt.Errorf("unsupported repository name: %s", repoName)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

// Wallets returns the wallet repository bound to the current session.
func (u *UoW) Wallets() (repository.WalletRepository, error) {
	repoAny, err := u.GetRepository(WalletRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.WalletRepository), nil
}

// Projects returns the project repository bound to the current session.
func (u *UoW) Projects() (repository.ProjectRepository, error) {
	repoAny, err := u.GetRepository(ProjectRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.ProjectRepository), nil
}

// Milestones returns the milestone repository bound to the current session.
func (u *UoW) Milestones() (repository.MilestoneRepository, error) {
	repoAny, err := u.GetRepository(MilestoneRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.MilestoneRepository), nil
}

// Escrows returns the escrow repository bound to the current session.
func (u *UoW) Escrows() (repository.EscrowRepository, error) {
	repoAny, err := u.GetRepository(EscrowRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.EscrowRepository), nil
}

// Disputes returns the dispute repository bound to the current session.
func (u *UoW) Disputes() (repository.DisputeRepository, error) {
	repoAny, err := u.GetRepository(DisputeRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.DisputeRepository), nil
}

// Transactions returns the transaction log repository bound to the current session.
func (u *UoW) Transactions() (repository.TransactionRepository, error) {
	repoAny, err := u.GetRepository(TransactionRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.TransactionRepository), nil
}

// Investments returns the investment repository bound to the current session.
func (u *UoW) Investments() (repository.InvestmentRepository, error) {
	repoAny, err := u.GetRepository(InvestmentRepositoryName)
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.InvestmentRepository), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
