// Package escrow provides the escrow account manager and the fund
// release/return engine: locking milestone funds out of the project
// pool and settling each escrow exactly once.
//
// Every operation runs as a single unit of work; preconditions are
// validated against row-locked reads so that two concurrent attempts to
// settle the same escrow result in exactly one success.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	escrowdomain "github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/money"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/pkg/repository"
)

// Service moves funds between the project pool, escrow accounts and the
// innovator wallet.
type Service struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates an escrow Service.
func NewService(uow repository.UnitOfWork, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: notifier, logger: logger}
}

// LockParams are the arguments for Lock.
type LockParams struct {
	MilestoneID uuid.UUID
	Amount      float64
}

// Lock creates an escrow account for an approved milestone, moving the
// milestone's required funding out of the project pool. The amount must
// equal the milestone's funding requirement exactly.
func (s *Service) Lock(ctx context.Context, params LockParams) (acct *escrowdomain.Account, err error) {
	logger := s.logger.With("milestoneID", params.MilestoneID)
	amount, err := money.New(params.Amount)
	if err != nil {
		return nil, err
	}

	var innovatorID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		milestones, err := uow.Milestones()
		if err != nil {
			return err
		}
		escrows, err := uow.Escrows()
		if err != nil {
			return err
		}
		projects, err := uow.Projects()
		if err != nil {
			return err
		}
		transactions, err := uow.Transactions()
		if err != nil {
			return err
		}

		ms, err := milestones.GetForUpdate(ctx, params.MilestoneID)
		if err != nil {
			return err
		}
		if ms.Status != milestone.StatusApproved {
			return milestone.ErrMilestoneNotApproved
		}
		if _, err := escrows.GetByMilestone(ctx, ms.ID); err == nil {
			return escrowdomain.ErrEscrowAlreadyExists
		} else if !errors.Is(err, escrowdomain.ErrEscrowNotFound) {
			return err
		}
		if !amount.Equal(ms.FundingRequired) {
			return escrowdomain.ErrAmountMismatch
		}

		proj, err := projects.GetForUpdate(ctx, ms.ProjectID)
		if err != nil {
			return err
		}
		if err := proj.DebitPool(amount); err != nil {
			return err
		}
		innovatorID = proj.InnovatorID

		acct = escrowdomain.NewAccount(ms.ID, proj.ID, amount)
		if err := escrows.Create(ctx, acct); err != nil {
			return err
		}
		if err := projects.Update(ctx, proj); err != nil {
			return err
		}
		tx := newPoolTransaction(proj.ID, acct.ID, ledger.TypeEscrowLock, amount,
			fmt.Sprintf("funds locked for milestone %s", ms.ID))
		return transactions.Create(ctx, tx)
	})
	if err != nil {
		acct = nil
		return
	}

	logger.Info("escrow locked", "escrowID", acct.ID, "amount", acct.Amount)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:     innovatorID,
		Title:      "Milestone funds locked",
		Message:    fmt.Sprintf("%s has been locked in escrow for your milestone", acct.Amount),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	})
	return
}

// Release settles a locked escrow in the innovator's favour, crediting
// the innovator's wallet with the full escrowed amount.
func (s *Service) Release(ctx context.Context, escrowID, approver uuid.UUID) (acct *escrowdomain.Account, err error) {
	logger := s.logger.With("escrowID", escrowID, "approver", approver)

	var innovatorID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, innovatorID, err = s.settleToInnovator(ctx, uow, escrowID, approver)
		return err
	})
	if err != nil {
		acct = nil
		return
	}

	logger.Info("escrow released", "amount", acct.Amount)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:     innovatorID,
		Title:      "Escrow released",
		Message:    fmt.Sprintf("%s has been released to your wallet", acct.Amount),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	})
	return
}

// Return settles a locked escrow back into the project pool and
// re-opens the linked milestone for future re-approval.
func (s *Service) Return(ctx context.Context, escrowID, approver uuid.UUID, reason string) (acct *escrowdomain.Account, err error) {
	logger := s.logger.With("escrowID", escrowID, "approver", approver)

	var innovatorID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		escrows, err := uow.Escrows()
		if err != nil {
			return err
		}
		disputes, err := uow.Disputes()
		if err != nil {
			return err
		}
		projects, err := uow.Projects()
		if err != nil {
			return err
		}
		milestones, err := uow.Milestones()
		if err != nil {
			return err
		}
		transactions, err := uow.Transactions()
		if err != nil {
			return err
		}

		acct, err = escrows.GetForUpdate(ctx, escrowID)
		if err != nil {
			return err
		}
		disputed, err := disputes.OpenExistsForEscrow(ctx, acct.ID)
		if err != nil {
			return err
		}
		if disputed {
			return escrowdomain.ErrEscrowDisputed
		}
		if err := acct.Return(approver, reason); err != nil {
			return err
		}

		proj, err := projects.GetForUpdate(ctx, acct.ProjectID)
		if err != nil {
			return err
		}
		if err := proj.CreditPool(acct.Amount); err != nil {
			return err
		}
		innovatorID = proj.InnovatorID

		ms, err := milestones.GetForUpdate(ctx, acct.MilestoneID)
		if err != nil {
			return err
		}
		if err := ms.TransitionTo(milestone.StatusPending); err != nil {
			return err
		}

		if err := escrows.Update(ctx, acct); err != nil {
			return err
		}
		if err := projects.Update(ctx, proj); err != nil {
			return err
		}
		if err := milestones.Update(ctx, ms); err != nil {
			return err
		}
		tx := newPoolTransaction(proj.ID, acct.ID, ledger.TypeEscrowReturn, acct.Amount, reason)
		return transactions.Create(ctx, tx)
	})
	if err != nil {
		acct = nil
		return
	}

	logger.Info("escrow returned", "amount", acct.Amount, "reason", reason)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:     innovatorID,
		Title:      "Escrow returned",
		Message:    fmt.Sprintf("%s was returned to the project pool: %s", acct.Amount, reason),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	})
	return
}

// Get returns an escrow account by id, for reporting.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*escrowdomain.Account, error) {
	escrows, err := s.uow.Escrows()
	if err != nil {
		return nil, err
	}
	return escrows.Get(ctx, id)
}

// settleToInnovator performs the locked-escrow to innovator-wallet leg
// shared by Release and the dispute engine's release action.
func (s *Service) settleToInnovator(
	ctx context.Context,
	uow repository.UnitOfWork,
	escrowID, approver uuid.UUID,
) (*escrowdomain.Account, uuid.UUID, error) {
	escrows, err := uow.Escrows()
	if err != nil {
		return nil, uuid.Nil, err
	}
	disputes, err := uow.Disputes()
	if err != nil {
		return nil, uuid.Nil, err
	}

	acct, err := escrows.GetForUpdate(ctx, escrowID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	disputed, err := disputes.OpenExistsForEscrow(ctx, acct.ID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if disputed {
		return nil, uuid.Nil, escrowdomain.ErrEscrowDisputed
	}
	if err := acct.Release(approver); err != nil {
		return nil, uuid.Nil, err
	}

	innovatorID, err := CreditInnovator(ctx, uow, acct, acct.Amount, ledger.TypeEscrowRelease,
		fmt.Sprintf("milestone escrow %s released", acct.ID))
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := escrows.Update(ctx, acct); err != nil {
		return nil, uuid.Nil, err
	}
	return acct, innovatorID, nil
}

// CreditInnovator credits the project innovator's wallet with amount
// and writes the completed transaction documenting it. The caller is
// responsible for the escrow status transition inside the same unit of
// work.
func CreditInnovator(
	ctx context.Context,
	uow repository.UnitOfWork,
	acct *escrowdomain.Account,
	amount money.Money,
	txType ledger.Type,
	notes string,
) (uuid.UUID, error) {
	projects, err := uow.Projects()
	if err != nil {
		return uuid.Nil, err
	}
	wallets, err := uow.Wallets()
	if err != nil {
		return uuid.Nil, err
	}
	transactions, err := uow.Transactions()
	if err != nil {
		return uuid.Nil, err
	}

	proj, err := projects.Get(ctx, acct.ProjectID)
	if err != nil {
		return uuid.Nil, err
	}
	byUser, err := wallets.GetByUser(ctx, proj.InnovatorID)
	if err != nil {
		return uuid.Nil, err
	}
	w, err := wallets.GetForUpdate(ctx, byUser.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := w.Credit(amount); err != nil {
		return uuid.Nil, err
	}
	if err := wallets.Update(ctx, w); err != nil {
		return uuid.Nil, err
	}
	tx := newWalletTransaction(w.ID, acct.ProjectID, acct.ID, txType, amount, notes)
	if err := transactions.Create(ctx, tx); err != nil {
		return uuid.Nil, err
	}
	return proj.InnovatorID, nil
}
