// Package dispute provides the dispute resolution engine: arbitrating
// a locked escrow into full release, full return, or a split, closing
// the dispute and the escrow atomically.
package dispute

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	escrowdomain "github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/money"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/pkg/repository"
	escrowsvc "github.com/innofund/escrow/pkg/service/escrow"
)

// Service arbitrates disputes over locked escrow funds.
type Service struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a dispute Service.
func NewService(uow repository.UnitOfWork, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: notifier, logger: logger}
}

// OpenParams are the arguments for Open.
type OpenParams struct {
	EscrowID    uuid.UUID
	RaisedBy    uuid.UUID
	Reason      string
	Description string
}

// Open raises a dispute against a locked escrow. At most one open
// dispute may exist per escrow.
func (s *Service) Open(ctx context.Context, params OpenParams) (d *escrowdomain.Dispute, err error) {
	logger := s.logger.With("escrowID", params.EscrowID, "raisedBy", params.RaisedBy)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		escrows, err := uow.Escrows()
		if err != nil {
			return err
		}
		disputes, err := uow.Disputes()
		if err != nil {
			return err
		}

		acct, err := escrows.GetForUpdate(ctx, params.EscrowID)
		if err != nil {
			return err
		}
		if !acct.Locked() {
			return escrowdomain.ErrEscrowNotLocked
		}
		open, err := disputes.OpenExistsForEscrow(ctx, acct.ID)
		if err != nil {
			return err
		}
		if open {
			return escrowdomain.ErrOpenDisputeExists
		}

		d = escrowdomain.NewDispute(acct.ID, params.RaisedBy, params.Reason, params.Description)
		return disputes.Create(ctx, d)
	})
	if err != nil {
		d = nil
		return
	}

	logger.Info("dispute opened", "disputeID", d.ID, "reason", params.Reason)
	s.notifier.Notify(ctx, notification.Notification{
		Role:       "escrow_manager",
		Title:      "Dispute opened",
		Message:    fmt.Sprintf("a dispute was raised over escrow %s: %s", params.EscrowID, params.Reason),
		EntityKind: "dispute",
		EntityID:   d.ID,
	})
	return
}

// ResolveParams are the arguments for Resolve. Amount is required only
// for partial releases.
type ResolveParams struct {
	DisputeID  uuid.UUID
	ResolverID uuid.UUID
	Action     escrowdomain.ResolutionAction
	Resolution string
	Amount     *float64
}

// Resolve closes an open dispute and settles its escrow in the same
// unit of work. A release credits the innovator with the full amount; a
// return moves everything back to the pool and re-opens the milestone;
// a partial release splits the escrow between the two.
func (s *Service) Resolve(ctx context.Context, params ResolveParams) (d *escrowdomain.Dispute, err error) {
	logger := s.logger.With("disputeID", params.DisputeID, "action", params.Action)
	if !params.Action.Valid() {
		return nil, escrowdomain.ErrInvalidResolutionAction
	}

	var notices []notification.Notification
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		disputes, err := uow.Disputes()
		if err != nil {
			return err
		}
		escrows, err := uow.Escrows()
		if err != nil {
			return err
		}

		d, err = disputes.GetForUpdate(ctx, params.DisputeID)
		if err != nil {
			return err
		}
		if d.Status != escrowdomain.DisputeOpen {
			return escrowdomain.ErrDisputeAlreadyResolved
		}
		acct, err := escrows.GetForUpdate(ctx, d.EscrowAccountID)
		if err != nil {
			return err
		}
		if !acct.Locked() {
			return escrowdomain.ErrEscrowNotLocked
		}

		var resolutionAmount *money.Money
		switch params.Action {
		case escrowdomain.ResolutionRelease:
			notices, err = s.resolveRelease(ctx, uow, acct, params)
		case escrowdomain.ResolutionReturn:
			notices, err = s.resolveReturn(ctx, uow, acct, params)
		case escrowdomain.ResolutionPartialRelease:
			resolutionAmount, notices, err = s.resolvePartial(ctx, uow, acct, params)
		}
		if err != nil {
			return err
		}
		if err := escrows.Update(ctx, acct); err != nil {
			return err
		}

		if err := d.Resolve(params.ResolverID, params.Action, params.Resolution, resolutionAmount); err != nil {
			return err
		}
		return disputes.Update(ctx, d)
	})
	if err != nil {
		d = nil
		return
	}

	logger.Info("dispute resolved", "resolution", params.Resolution)
	for _, n := range notices {
		s.notifier.Notify(ctx, n)
	}
	return
}

func (s *Service) resolveRelease(
	ctx context.Context,
	uow repository.UnitOfWork,
	acct *escrowdomain.Account,
	params ResolveParams,
) ([]notification.Notification, error) {
	if err := acct.Release(params.ResolverID); err != nil {
		return nil, err
	}
	innovatorID, err := escrowsvc.CreditInnovator(ctx, uow, acct, acct.Amount, ledger.TypeEscrowRelease,
		fmt.Sprintf("dispute %s resolved: full release", params.DisputeID))
	if err != nil {
		return nil, err
	}
	return []notification.Notification{{
		UserID:     innovatorID,
		Title:      "Dispute resolved in your favour",
		Message:    fmt.Sprintf("%s has been released to your wallet", acct.Amount),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	}}, nil
}

func (s *Service) resolveReturn(
	ctx context.Context,
	uow repository.UnitOfWork,
	acct *escrowdomain.Account,
	params ResolveParams,
) ([]notification.Notification, error) {
	projects, err := uow.Projects()
	if err != nil {
		return nil, err
	}
	milestones, err := uow.Milestones()
	if err != nil {
		return nil, err
	}
	transactions, err := uow.Transactions()
	if err != nil {
		return nil, err
	}

	if err := acct.Return(params.ResolverID, params.Resolution); err != nil {
		return nil, err
	}
	proj, err := projects.GetForUpdate(ctx, acct.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := proj.CreditPool(acct.Amount); err != nil {
		return nil, err
	}
	ms, err := milestones.GetForUpdate(ctx, acct.MilestoneID)
	if err != nil {
		return nil, err
	}
	if err := ms.TransitionTo(milestone.StatusPending); err != nil {
		return nil, err
	}
	if err := projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	if err := milestones.Update(ctx, ms); err != nil {
		return nil, err
	}
	tx := ledger.NewCompleted(nil, &proj.ID, &acct.ID, ledger.TypeEscrowReturn, acct.Amount,
		fmt.Sprintf("dispute %s resolved: full return", params.DisputeID))
	if err := transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return []notification.Notification{{
		UserID:     proj.InnovatorID,
		Title:      "Dispute resolved: escrow returned",
		Message:    fmt.Sprintf("%s was returned to the project pool", acct.Amount),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	}}, nil
}

func (s *Service) resolvePartial(
	ctx context.Context,
	uow repository.UnitOfWork,
	acct *escrowdomain.Account,
	params ResolveParams,
) (*money.Money, []notification.Notification, error) {
	if params.Amount == nil {
		return nil, nil, escrowdomain.ErrInvalidPartialAmount
	}
	released, err := money.New(*params.Amount)
	if err != nil {
		return nil, nil, escrowdomain.ErrInvalidPartialAmount
	}

	projects, err := uow.Projects()
	if err != nil {
		return nil, nil, err
	}
	transactions, err := uow.Transactions()
	if err != nil {
		return nil, nil, err
	}

	if err := acct.PartialRelease(params.ResolverID, released); err != nil {
		return nil, nil, err
	}
	remainder, err := acct.Remainder()
	if err != nil {
		return nil, nil, err
	}

	innovatorID, err := escrowsvc.CreditInnovator(ctx, uow, acct, released, ledger.TypeEscrowPartialRelease,
		fmt.Sprintf("dispute %s resolved: partial release", params.DisputeID))
	if err != nil {
		return nil, nil, err
	}
	proj, err := projects.GetForUpdate(ctx, acct.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := proj.CreditPool(remainder); err != nil {
		return nil, nil, err
	}
	if err := projects.Update(ctx, proj); err != nil {
		return nil, nil, err
	}
	tx := ledger.NewCompleted(nil, &proj.ID, &acct.ID, ledger.TypeEscrowReturn, remainder,
		fmt.Sprintf("dispute %s resolved: remainder returned to pool", params.DisputeID))
	if err := transactions.Create(ctx, tx); err != nil {
		return nil, nil, err
	}

	notices := []notification.Notification{{
		UserID:     innovatorID,
		Title:      "Dispute resolved: partial release",
		Message:    fmt.Sprintf("%s of %s has been released to your wallet", released, acct.Amount),
		EntityKind: "escrow",
		EntityID:   acct.ID,
	}}
	return &released, notices, nil
}

// Get returns a dispute by id, for reporting.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*escrowdomain.Dispute, error) {
	disputes, err := s.uow.Disputes()
	if err != nil {
		return nil, err
	}
	return disputes.Get(ctx, id)
}
