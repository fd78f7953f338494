// Package fixtures provides an in-memory UnitOfWork and repositories
// for service tests. Do snapshots the state before running the work
// function and restores it on error, mirroring the rollback semantics
// of the real store.
package fixtures

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/repository"
)

// State is the shared in-memory data set. Entities are stored by value;
// repositories hand out copies, so mutations only land through Update.
type State struct {
	Wallets      map[uuid.UUID]wallet.Wallet
	Projects     map[uuid.UUID]project.Project
	Milestones   map[uuid.UUID]milestone.Milestone
	Escrows      map[uuid.UUID]escrow.Account
	Disputes     map[uuid.UUID]escrow.Dispute
	Transactions map[uuid.UUID]ledger.Transaction
	Investments  []project.Investment
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Wallets:      make(map[uuid.UUID]wallet.Wallet),
		Projects:     make(map[uuid.UUID]project.Project),
		Milestones:   make(map[uuid.UUID]milestone.Milestone),
		Escrows:      make(map[uuid.UUID]escrow.Account),
		Disputes:     make(map[uuid.UUID]escrow.Dispute),
		Transactions: make(map[uuid.UUID]ledger.Transaction),
	}
}

func (s *State) clone() *State {
	c := NewState()
	for k, v := range s.Wallets {
		c.Wallets[k] = v
	}
	for k, v := range s.Projects {
		c.Projects[k] = v
	}
	for k, v := range s.Milestones {
		c.Milestones[k] = v
	}
	for k, v := range s.Escrows {
		c.Escrows[k] = v
	}
	for k, v := range s.Disputes {
		c.Disputes[k] = v
	}
	for k, v := range s.Transactions {
		c.Transactions[k] = v
	}
	c.Investments = append(c.Investments, s.Investments...)
	return c
}

func (s *State) restore(from *State) {
	s.Wallets = from.Wallets
	s.Projects = from.Projects
	s.Milestones = from.Milestones
	s.Escrows = from.Escrows
	s.Disputes = from.Disputes
	s.Transactions = from.Transactions
	s.Investments = from.Investments
}

// TotalCents returns the conserved quantity: wallet balances, plus
// still-locked escrow amounts, plus project pools.
func (s *State) TotalCents() int64 {
	var total int64
	for _, w := range s.Wallets {
		total += w.Balance.Cents()
	}
	for _, e := range s.Escrows {
		if e.Status == escrow.StatusLocked {
			total += e.Amount.Cents()
		}
	}
	for _, p := range s.Projects {
		total += p.CurrentFunding.Cents()
	}
	return total
}

// UnitOfWork is the in-memory repository.UnitOfWork.
type UnitOfWork struct {
	State *State
}

// NewUnitOfWork wraps state in a fake unit of work.
func NewUnitOfWork(state *State) *UnitOfWork {
	return &UnitOfWork{State: state}
}

// Do runs fn against the live state and restores the pre-call snapshot
// if fn fails.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	snapshot := u.State.clone()
	if err := fn(u); err != nil {
		u.State.restore(snapshot)
		return err
	}
	return nil
}

func (u *UnitOfWork) Wallets() (repository.WalletRepository, error) {
	return &walletRepo{s: u.State}, nil
}

func (u *UnitOfWork) Projects() (repository.ProjectRepository, error) {
	return &projectRepo{s: u.State}, nil
}

func (u *UnitOfWork) Milestones() (repository.MilestoneRepository, error) {
	return &milestoneRepo{s: u.State}, nil
}

func (u *UnitOfWork) Escrows() (repository.EscrowRepository, error) {
	return &escrowRepo{s: u.State}, nil
}

func (u *UnitOfWork) Disputes() (repository.DisputeRepository, error) {
	return &disputeRepo{s: u.State}, nil
}

func (u *UnitOfWork) Transactions() (repository.TransactionRepository, error) {
	return &transactionRepo{s: u.State}, nil
}

func (u *UnitOfWork) Investments() (repository.InvestmentRepository, error) {
	return &investmentRepo{s: u.State}, nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

type walletRepo struct{ s *State }

func (r *walletRepo) Get(_ context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	w, ok := r.s.Wallets[id]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	return &w, nil
}

func (r *walletRepo) GetByUser(_ context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	for _, w := range r.s.Wallets {
		if w.UserID == userID {
			w := w
			return &w, nil
		}
	}
	return nil, wallet.ErrWalletNotFound
}

func (r *walletRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	return r.Get(ctx, id)
}

func (r *walletRepo) Create(_ context.Context, w *wallet.Wallet) error {
	r.s.Wallets[w.ID] = *w
	return nil
}

func (r *walletRepo) Update(_ context.Context, w *wallet.Wallet) error {
	if _, ok := r.s.Wallets[w.ID]; !ok {
		return wallet.ErrWalletNotFound
	}
	r.s.Wallets[w.ID] = *w
	return nil
}

type projectRepo struct{ s *State }

func (r *projectRepo) Get(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := r.s.Projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return &p, nil
}

func (r *projectRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return r.Get(ctx, id)
}

func (r *projectRepo) Create(_ context.Context, p *project.Project) error {
	r.s.Projects[p.ID] = *p
	return nil
}

func (r *projectRepo) Update(_ context.Context, p *project.Project) error {
	if _, ok := r.s.Projects[p.ID]; !ok {
		return project.ErrProjectNotFound
	}
	r.s.Projects[p.ID] = *p
	return nil
}

type milestoneRepo struct{ s *State }

func (r *milestoneRepo) Get(_ context.Context, id uuid.UUID) (*milestone.Milestone, error) {
	m, ok := r.s.Milestones[id]
	if !ok {
		return nil, milestone.ErrMilestoneNotFound
	}
	return &m, nil
}

func (r *milestoneRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error) {
	return r.Get(ctx, id)
}

func (r *milestoneRepo) Create(_ context.Context, m *milestone.Milestone) error {
	r.s.Milestones[m.ID] = *m
	return nil
}

func (r *milestoneRepo) Update(_ context.Context, m *milestone.Milestone) error {
	if _, ok := r.s.Milestones[m.ID]; !ok {
		return milestone.ErrMilestoneNotFound
	}
	r.s.Milestones[m.ID] = *m
	return nil
}

type escrowRepo struct{ s *State }

func (r *escrowRepo) Get(_ context.Context, id uuid.UUID) (*escrow.Account, error) {
	a, ok := r.s.Escrows[id]
	if !ok {
		return nil, escrow.ErrEscrowNotFound
	}
	return &a, nil
}

func (r *escrowRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Account, error) {
	return r.Get(ctx, id)
}

func (r *escrowRepo) GetByMilestone(_ context.Context, milestoneID uuid.UUID) (*escrow.Account, error) {
	for _, a := range r.s.Escrows {
		if a.MilestoneID == milestoneID {
			a := a
			return &a, nil
		}
	}
	return nil, escrow.ErrEscrowNotFound
}

func (r *escrowRepo) Create(_ context.Context, a *escrow.Account) error {
	for _, existing := range r.s.Escrows {
		if existing.MilestoneID == a.MilestoneID {
			return escrow.ErrEscrowAlreadyExists
		}
	}
	r.s.Escrows[a.ID] = *a
	return nil
}

func (r *escrowRepo) Update(_ context.Context, a *escrow.Account) error {
	if _, ok := r.s.Escrows[a.ID]; !ok {
		return escrow.ErrEscrowNotFound
	}
	r.s.Escrows[a.ID] = *a
	return nil
}

type disputeRepo struct{ s *State }

func (r *disputeRepo) Get(_ context.Context, id uuid.UUID) (*escrow.Dispute, error) {
	d, ok := r.s.Disputes[id]
	if !ok {
		return nil, escrow.ErrDisputeNotFound
	}
	return &d, nil
}

func (r *disputeRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Dispute, error) {
	return r.Get(ctx, id)
}

func (r *disputeRepo) OpenExistsForEscrow(_ context.Context, escrowAccountID uuid.UUID) (bool, error) {
	for _, d := range r.s.Disputes {
		if d.EscrowAccountID == escrowAccountID && d.Status == escrow.DisputeOpen {
			return true, nil
		}
	}
	return false, nil
}

func (r *disputeRepo) Create(_ context.Context, d *escrow.Dispute) error {
	for _, existing := range r.s.Disputes {
		if existing.EscrowAccountID == d.EscrowAccountID && existing.Status == escrow.DisputeOpen {
			return escrow.ErrOpenDisputeExists
		}
	}
	r.s.Disputes[d.ID] = *d
	return nil
}

func (r *disputeRepo) Update(_ context.Context, d *escrow.Dispute) error {
	if _, ok := r.s.Disputes[d.ID]; !ok {
		return escrow.ErrDisputeNotFound
	}
	r.s.Disputes[d.ID] = *d
	return nil
}

type transactionRepo struct{ s *State }

func (r *transactionRepo) Get(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	t, ok := r.s.Transactions[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	return &t, nil
}

func (r *transactionRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return r.Get(ctx, id)
}

func (r *transactionRepo) Create(_ context.Context, t *ledger.Transaction) error {
	r.s.Transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) Update(_ context.Context, t *ledger.Transaction) error {
	if _, ok := r.s.Transactions[t.ID]; !ok {
		return ledger.ErrTransactionNotFound
	}
	r.s.Transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) ListByWallet(_ context.Context, walletID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range r.s.Transactions {
		if t.WalletID != nil && *t.WalletID == walletID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type investmentRepo struct{ s *State }

func (r *investmentRepo) Create(_ context.Context, inv *project.Investment) error {
	r.s.Investments = append(r.s.Investments, *inv)
	return nil
}

func (r *investmentRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*project.Investment, error) {
	var out []*project.Investment
	for i := range r.s.Investments {
		if r.s.Investments[i].ProjectID == projectID {
			inv := r.s.Investments[i]
			out = append(out, &inv)
		}
	}
	return out, nil
}
