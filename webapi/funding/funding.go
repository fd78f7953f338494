// Package funding exposes the investment endpoints.
package funding

import (
	fundingsvc "github.com/innofund/escrow/pkg/service/funding"
	"github.com/innofund/escrow/webapi/common"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// InvestRequest is the body for POST /projects/:id/invest.
type InvestRequest struct {
	InvestorID string  `json:"investor_id" validate:"required,uuid4"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// Routes registers the investment endpoints.
//
//   - POST /projects/:id/invest      : Invest from a wallet into the project pool.
//   - GET  /projects/:id             : Read the project and its funding status.
//   - GET  /projects/:id/investments : List the project's investment records.
func Routes(app *fiber.App, svc *fundingsvc.Service) {
	app.Post("/projects/:id/invest", Invest(svc))
	app.Get("/projects/:id", GetProject(svc))
	app.Get("/projects/:id/investments", ListInvestments(svc))
}

// Invest handles an investment into a project's funding pool.
func Invest(svc *fundingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid project ID", err.Error())
		}
		input, err := common.BindAndValidate[InvestRequest](c)
		if input == nil {
			return err
		}
		investorID, err := uuid.Parse(input.InvestorID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid investor ID", err.Error())
		}

		inv, err := svc.Invest(c.Context(), fundingsvc.InvestParams{
			ProjectID:  projectID,
			InvestorID: investorID,
			Amount:     input.Amount,
		})
		if err != nil {
			log.Errorf("Failed to invest: %v", err)
			return common.DomainErrorResponseJSON(c, "Failed to invest", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Investment recorded", inv)
	}
}

// GetProject returns a project with its current funding status.
func GetProject(svc *fundingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid project ID", err.Error())
		}
		p, err := svc.GetProject(c.Context(), projectID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to get project", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Project", p)
	}
}

// ListInvestments returns the investment records of a project.
func ListInvestments(svc *fundingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid project ID", err.Error())
		}
		invs, err := svc.ListInvestments(c.Context(), projectID)
		if err != nil {
			return common.DomainErrorResponseJSON(c, "Failed to list investments", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Investments", invs)
	}
}
