// Package escrow exposes the escrow lock, release and return
// endpoints.
package escrow

import (
	escrowsvc "github.com/innofund/escrow/pkg/service/escrow"
	"github.com/innofund/escrow/webapi/common"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// LockRequest is the body for POST /milestones/:id/escrow. The amount
// must equal the milestone's funding requirement exactly.
type LockRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// ReleaseRequest is the body for POST /escrows/:id/release.
type ReleaseRequest struct {
	ApproverID string `json:"approver_id" validate:"required,uuid4"`
}

// ReturnRequest is the body for POST /escrows/:id/return.
type ReturnRequest struct {
	ApproverID string `json:"approver_id" validate:"required,uuid4"`
	Reason     string `json:"reason" validate:"required"`
}

// Routes registers the escrow endpoints.
//
//   - POST /milestones/:id/escrow : Lock the milestone's funding in escrow.
//   - GET  /escrows/:id           : Read an escrow account.
//   - POST /escrows/:id/release   : Release the escrow to the innovator.
//   - POST /escrows/:id/return    : Return the escrow to the project pool.
func Routes(app *fiber.App, svc *escrowsvc.Service) {
	app.Post("/milestones/:id/escrow", Lock(svc))
	app.Get("/escrows/:id", Get(svc))
	app.Post("/escrows/:id/release", Release(svc))
	app.Post("/escrows/:id/return", Return(svc))
}

// Lock creates the escrow account for an approved milestone.
func Lock(svc *escrowsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		milestoneID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid milestone ID", err.Error())
		}
		input, err := common.BindAndValidate[LockRequest](c)
		if input == nil {
			return err
		}

		acct, err := svc.Lock(c.Context(), escrowsvc.LockParams{
			MilestoneID: milestoneID,
			Amount:      input.Amount,
		})
		if err != nil {
			log.Errorf("Failed to lock escrow: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to lock escrow", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Escrow locked", acct)
	}
}

// Get reads an escrow account.
func Get(svc *escrowsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		escrowID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid escrow ID", err.Error())
		}
		acct, err := svc.Get(c.Context(), escrowID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to get escrow", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Escrow", acct)
	}
}

// Release settles the escrow into the innovator's wallet.
func Release(svc *escrowsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		escrowID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid escrow ID", err.Error())
		}
		input, err := common.BindAndValidate[ReleaseRequest](c)
		if input == nil {
			return err
		}
		approverID, err := uuid.Parse(input.ApproverID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid approver ID", err.Error())
		}

		acct, err := svc.Release(c.Context(), escrowID, approverID)
		if err != nil {
			log.Errorf("Failed to release escrow: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to release escrow", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Escrow released", acct)
	}
}

// Return settles the escrow back into the project pool.
func Return(svc *escrowsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		escrowID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid escrow ID", err.Error())
		}
		input, err := common.BindAndValidate[ReturnRequest](c)
		if input == nil {
			return err
		}
		approverID, err := uuid.Parse(input.ApproverID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid approver ID", err.Error())
		}

		acct, err := svc.Return(c.Context(), escrowID, approverID, input.Reason)
		if err != nil {
			log.Errorf("Failed to return escrow: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to return escrow", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Escrow returned", acct)
	}
}
