package repository

import "context"

// UnitOfWork is the transaction boundary for every multi-row fund
// movement. Do opens a transactional scope, runs fn with a UnitOfWork
// whose repositories share that scope's session, and commits when fn
// returns nil or rolls back fully when it returns an error. The scope
// owns cleanup on every exit path, so a failing step can never leave a
// partial write behind.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Wallets() (WalletRepository, error)
	Projects() (ProjectRepository, error)
	Milestones() (MilestoneRepository, error)
	Escrows() (EscrowRepository, error)
	Disputes() (DisputeRepository, error)
	Transactions() (TransactionRepository, error)
	Investments() (InvestmentRepository, error)
}
