// Package ledger provides wallet onboarding, two-phase deposit and
// withdrawal requests, their settlement, and the read accessors over
// the transaction log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	ledgerdomain "github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/pkg/repository"
)

// Service owns the wallet ledger and the transaction log.
type Service struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a ledger Service.
func NewService(uow repository.UnitOfWork, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: notifier, logger: logger}
}

// OpenWallet creates a zero-balance wallet for a user at onboarding.
func (s *Service) OpenWallet(ctx context.Context, userID uuid.UUID) (w *wallet.Wallet, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallets, err := uow.Wallets()
		if err != nil {
			return err
		}
		w = wallet.New(userID)
		return wallets.Create(ctx, w)
	})
	if err != nil {
		w = nil
	}
	return
}

// RequestDeposit records a pending deposit awaiting approval. The
// wallet balance is untouched until the transaction settles.
func (s *Service) RequestDeposit(ctx context.Context, walletID uuid.UUID, amount float64, notes string) (*ledgerdomain.Transaction, error) {
	return s.requestTwoPhase(ctx, walletID, ledgerdomain.TypeDeposit, amount, notes)
}

// RequestWithdrawal records a pending withdrawal awaiting approval.
// The wallet must cover the amount at request time; it is re-checked at
// settlement.
func (s *Service) RequestWithdrawal(ctx context.Context, walletID uuid.UUID, amount float64, notes string) (*ledgerdomain.Transaction, error) {
	return s.requestTwoPhase(ctx, walletID, ledgerdomain.TypeWithdrawal, amount, notes)
}

func (s *Service) requestTwoPhase(ctx context.Context, walletID uuid.UUID, txType ledgerdomain.Type, amount float64, notes string) (tx *ledgerdomain.Transaction, err error) {
	m, err := money.New(amount)
	if err != nil {
		return nil, err
	}
	if !m.IsPositive() {
		return nil, wallet.ErrAmountMustBePositive
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallets, err := uow.Wallets()
		if err != nil {
			return err
		}
		transactions, err := uow.Transactions()
		if err != nil {
			return err
		}
		w, err := wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if txType == ledgerdomain.TypeWithdrawal && w.Balance.LessThan(m) {
			return wallet.ErrInsufficientFunds
		}
		tx = ledgerdomain.NewPending(w.ID, txType, m, notes)
		return transactions.Create(ctx, tx)
	})
	if err != nil {
		tx = nil
		return
	}

	s.logger.Info("two-phase transaction recorded",
		"transactionID", tx.ID, "type", txType, "amount", m)
	return
}

// Settle transitions a pending deposit or withdrawal to completed
// (applying the balance delta) or rejected (no balance change). A
// withdrawal the wallet can no longer cover is settled as rejected.
func (s *Service) Settle(ctx context.Context, transactionID uuid.UUID, approved bool, approver uuid.UUID) (tx *ledgerdomain.Transaction, err error) {
	logger := s.logger.With("transactionID", transactionID, "approver", approver)

	var ownerID uuid.UUID
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallets, err := uow.Wallets()
		if err != nil {
			return err
		}
		transactions, err := uow.Transactions()
		if err != nil {
			return err
		}

		tx, err = transactions.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.Status != ledgerdomain.StatusPending {
			return ledgerdomain.ErrAlreadySettled
		}
		w, err := wallets.GetForUpdate(ctx, *tx.WalletID)
		if err != nil {
			return err
		}
		ownerID = w.UserID

		outcome := approved
		if outcome && tx.Type == ledgerdomain.TypeWithdrawal && w.Balance.LessThan(tx.Amount) {
			outcome = false
			tx.Notes = fmt.Sprintf("%s (rejected: insufficient funds at settlement)", tx.Notes)
		}
		if err := tx.Settle(outcome, approver); err != nil {
			return err
		}
		if tx.Status == ledgerdomain.StatusCompleted {
			switch tx.Type {
			case ledgerdomain.TypeDeposit:
				err = w.Credit(tx.Amount)
			case ledgerdomain.TypeWithdrawal:
				err = w.Debit(tx.Amount)
			}
			if err != nil {
				return err
			}
			if err := wallets.Update(ctx, w); err != nil {
				return err
			}
		}
		return transactions.Update(ctx, tx)
	})
	if err != nil {
		tx = nil
		return
	}

	logger.Info("transaction settled", "status", tx.Status, "type", tx.Type)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:     ownerID,
		Title:      fmt.Sprintf("%s %s", tx.Type, tx.Status),
		Message:    fmt.Sprintf("your %s of %s is %s", tx.Type, tx.Amount, tx.Status),
		EntityKind: "transaction",
		EntityID:   tx.ID,
	})
	return
}

// GetWallet returns a wallet by id, for balance reads.
func (s *Service) GetWallet(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	wallets, err := s.uow.Wallets()
	if err != nil {
		return nil, err
	}
	return wallets.Get(ctx, id)
}

// History returns the transaction log of a wallet.
func (s *Service) History(ctx context.Context, walletID uuid.UUID) ([]*ledgerdomain.Transaction, error) {
	transactions, err := s.uow.Transactions()
	if err != nil {
		return nil, err
	}
	return transactions.ListByWallet(ctx, walletID)
}
