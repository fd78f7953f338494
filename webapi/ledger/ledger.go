// Package ledger exposes the wallet and transaction log endpoints.
package ledger

import (
	ledgersvc "github.com/innofund/escrow/pkg/service/ledger"
	"github.com/innofund/escrow/webapi/common"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// OpenWalletRequest is the body for POST /wallets.
type OpenWalletRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

// MovementRequest is the body for deposit and withdrawal requests.
type MovementRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Notes  string  `json:"notes"`
}

// SettleRequest is the body for POST /transactions/:id/settle.
type SettleRequest struct {
	ApproverID string `json:"approver_id" validate:"required,uuid4"`
	Approved   *bool  `json:"approved" validate:"required"`
}

// Routes registers the wallet ledger endpoints.
//
//   - POST /wallets                  : Open a wallet for a user.
//   - GET  /wallets/:id              : Read a wallet balance.
//   - GET  /wallets/:id/transactions : List a wallet's transaction log.
//   - POST /wallets/:id/deposits     : Request a deposit (pending until settled).
//   - POST /wallets/:id/withdrawals  : Request a withdrawal (pending until settled).
//   - POST /transactions/:id/settle  : Settle a pending deposit or withdrawal.
func Routes(app *fiber.App, svc *ledgersvc.Service) {
	app.Post("/wallets", OpenWallet(svc))
	app.Get("/wallets/:id", GetWallet(svc))
	app.Get("/wallets/:id/transactions", History(svc))
	app.Post("/wallets/:id/deposits", RequestDeposit(svc))
	app.Post("/wallets/:id/withdrawals", RequestWithdrawal(svc))
	app.Post("/transactions/:id/settle", Settle(svc))
}

// OpenWallet creates a zero-balance wallet.
func OpenWallet(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OpenWalletRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user ID", err.Error())
		}

		w, err := svc.OpenWallet(c.Context(), userID)
		if err != nil {
			log.Errorf("Failed to open wallet: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to open wallet", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Wallet opened", w)
	}
}

// GetWallet reads a wallet balance.
func GetWallet(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		walletID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet ID", err.Error())
		}
		w, err := svc.GetWallet(c.Context(), walletID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to get wallet", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Wallet", w)
	}
}

// History lists a wallet's transactions in creation order.
func History(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		walletID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet ID", err.Error())
		}
		txs, err := svc.History(c.Context(), walletID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", txs)
	}
}

// RequestDeposit records a pending deposit.
func RequestDeposit(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		walletID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet ID", err.Error())
		}
		input, err := common.BindAndValidate[MovementRequest](c)
		if input == nil {
			return err
		}

		tx, err := svc.RequestDeposit(c.Context(), walletID, input.Amount, input.Notes)
		if err != nil {
			log.Errorf("Failed to request deposit: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to request deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit requested", tx)
	}
}

// RequestWithdrawal records a pending withdrawal.
func RequestWithdrawal(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		walletID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet ID", err.Error())
		}
		input, err := common.BindAndValidate[MovementRequest](c)
		if input == nil {
			return err
		}

		tx, err := svc.RequestWithdrawal(c.Context(), walletID, input.Amount, input.Notes)
		if err != nil {
			log.Errorf("Failed to request withdrawal: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to request withdrawal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal requested", tx)
	}
}

// Settle completes or rejects a pending deposit or withdrawal.
func Settle(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction ID", err.Error())
		}
		input, err := common.BindAndValidate[SettleRequest](c)
		if input == nil {
			return err
		}
		approverID, err := uuid.Parse(input.ApproverID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid approver ID", err.Error())
		}

		tx, err := svc.Settle(c.Context(), txID, *input.Approved, approverID)
		if err != nil {
			log.Errorf("Failed to settle transaction: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to settle transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction settled", tx)
	}
}
