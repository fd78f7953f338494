// Package dispute exposes the dispute endpoints.
package dispute

import (
	escrowdomain "github.com/innofund/escrow/pkg/domain/escrow"
	disputesvc "github.com/innofund/escrow/pkg/service/dispute"
	"github.com/innofund/escrow/webapi/common"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// OpenRequest is the body for POST /escrows/:id/disputes.
type OpenRequest struct {
	RaisedBy    string `json:"raised_by" validate:"required,uuid4"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description"`
}

// ResolveRequest is the body for POST /disputes/:id/resolve. Amount is
// required only when action is partial_release.
type ResolveRequest struct {
	ResolverID string   `json:"resolver_id" validate:"required,uuid4"`
	Action     string   `json:"action" validate:"required,oneof=release return partial_release"`
	Resolution string   `json:"resolution"`
	Amount     *float64 `json:"amount" validate:"omitempty,gt=0"`
}

// Routes registers the dispute endpoints.
//
//   - POST /escrows/:id/disputes : Open a dispute against a locked escrow.
//   - GET  /disputes/:id         : Read a dispute.
//   - POST /disputes/:id/resolve : Resolve a dispute, settling its escrow.
func Routes(app *fiber.App, svc *disputesvc.Service) {
	app.Post("/escrows/:id/disputes", Open(svc))
	app.Get("/disputes/:id", Get(svc))
	app.Post("/disputes/:id/resolve", Resolve(svc))
}

// Open raises a dispute against a locked escrow.
func Open(svc *disputesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		escrowID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid escrow ID", err.Error())
		}
		input, err := common.BindAndValidate[OpenRequest](c)
		if input == nil {
			return err
		}
		raisedBy, err := uuid.Parse(input.RaisedBy)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid raised_by ID", err.Error())
		}

		d, err := svc.Open(c.Context(), disputesvc.OpenParams{
			EscrowID:    escrowID,
			RaisedBy:    raisedBy,
			Reason:      input.Reason,
			Description: input.Description,
		})
		if err != nil {
			log.Errorf("Failed to open dispute: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to open dispute", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Dispute opened", d)
	}
}

// Get reads a dispute.
func Get(svc *disputesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		disputeID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid dispute ID", err.Error())
		}
		d, err := svc.Get(c.Context(), disputeID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to get dispute", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Dispute", d)
	}
}

// Resolve closes a dispute with a release, return or partial release.
func Resolve(svc *disputesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		disputeID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid dispute ID", err.Error())
		}
		input, err := common.BindAndValidate[ResolveRequest](c)
		if input == nil {
			return err
		}
		resolverID, err := uuid.Parse(input.ResolverID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid resolver ID", err.Error())
		}

		d, err := svc.Resolve(c.Context(), disputesvc.ResolveParams{
			DisputeID:  disputeID,
			ResolverID: resolverID,
			Action:     escrowdomain.ResolutionAction(input.Action),
			Resolution: input.Resolution,
			Amount:     input.Amount,
		})
		if err != nil {
			log.Errorf("Failed to resolve dispute: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to resolve dispute", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Dispute resolved", d)
	}
}
