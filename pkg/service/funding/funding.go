// Package funding provides the investment engine: moving funds from an
// investor's wallet into a project's funding pool.
package funding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/money"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/pkg/repository"
)

// Service moves investor capital into project funding pools.
type Service struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a funding Service.
func NewService(uow repository.UnitOfWork, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: notifier, logger: logger}
}

// InvestParams are the arguments for Invest.
type InvestParams struct {
	ProjectID  uuid.UUID
	InvestorID uuid.UUID
	Amount     float64
}

// Invest debits the investor's wallet, credits the project funding
// pool, recomputes the project's funding status and writes the
// completed investment transaction, all in one unit of work. Any
// precondition violation performs no mutation.
func (s *Service) Invest(ctx context.Context, params InvestParams) (inv *project.Investment, err error) {
	logger := s.logger.With("projectID", params.ProjectID, "investorID", params.InvestorID)
	amount, err := money.New(params.Amount)
	if err != nil {
		return nil, err
	}

	var innovatorID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		projects, err := uow.Projects()
		if err != nil {
			return err
		}
		wallets, err := uow.Wallets()
		if err != nil {
			return err
		}
		transactions, err := uow.Transactions()
		if err != nil {
			return err
		}
		investments, err := uow.Investments()
		if err != nil {
			return err
		}

		proj, err := projects.GetForUpdate(ctx, params.ProjectID)
		if err != nil {
			return err
		}
		byUser, err := wallets.GetByUser(ctx, params.InvestorID)
		if err != nil {
			return err
		}
		w, err := wallets.GetForUpdate(ctx, byUser.ID)
		if err != nil {
			return err
		}

		if err := proj.ApplyInvestment(amount); err != nil {
			return err
		}
		if err := w.Debit(amount); err != nil {
			return err
		}
		innovatorID = proj.InnovatorID

		if err := wallets.Update(ctx, w); err != nil {
			return err
		}
		if err := projects.Update(ctx, proj); err != nil {
			return err
		}
		tx := ledger.NewCompleted(&w.ID, &proj.ID, nil, ledger.TypeInvestment, amount,
			fmt.Sprintf("investment in project %s", proj.ID))
		if err := transactions.Create(ctx, tx); err != nil {
			return err
		}
		inv = project.NewInvestment(proj.ID, params.InvestorID, amount)
		return investments.Create(ctx, inv)
	})
	if err != nil {
		inv = nil
		return
	}

	logger.Info("investment completed", "amount", inv.Amount)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:     innovatorID,
		Title:      "New investment",
		Message:    fmt.Sprintf("%s has been invested in your project", inv.Amount),
		EntityKind: "project",
		EntityID:   params.ProjectID,
	})
	return
}

// GetProject returns the current funding pool state, for reporting.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	projects, err := s.uow.Projects()
	if err != nil {
		return nil, err
	}
	return projects.Get(ctx, id)
}

// ListInvestments returns the completed investments of a project.
func (s *Service) ListInvestments(ctx context.Context, projectID uuid.UUID) ([]*project.Investment, error) {
	investments, err := s.uow.Investments()
	if err != nil {
		return nil, err
	}
	return investments.ListByProject(ctx, projectID)
}
