package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	escrowdomain "github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// SuccessResponseJSON writes a standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// DomainErrorResponseJSON maps a domain error to its HTTP status and
// writes the problem response.
func DomainErrorResponseJSON(c *fiber.Ctx, title string, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), title, err.Error())
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, milestone.ErrMilestoneNotFound),
		errors.Is(err, escrowdomain.ErrEscrowNotFound),
		errors.Is(err, escrowdomain.ErrDisputeNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, escrowdomain.ErrEscrowAlreadyExists),
		errors.Is(err, escrowdomain.ErrOpenDisputeExists),
		errors.Is(err, escrowdomain.ErrEscrowAlreadySettled),
		errors.Is(err, escrowdomain.ErrEscrowDisputed),
		errors.Is(err, escrowdomain.ErrDisputeAlreadyResolved),
		errors.Is(err, ledger.ErrAlreadySettled):
		return fiber.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, project.ErrInsufficientPoolFunds),
		errors.Is(err, project.ErrProjectNotFundable),
		errors.Is(err, project.ErrBelowMinimumInvestment),
		errors.Is(err, escrowdomain.ErrEscrowNotLocked),
		errors.Is(err, escrowdomain.ErrAmountMismatch),
		errors.Is(err, milestone.ErrMilestoneNotApproved),
		errors.Is(err, milestone.ErrInvalidTransition),
		errors.Is(err, ledger.ErrNotSettleable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, wallet.ErrAmountMustBePositive),
		errors.Is(err, escrowdomain.ErrInvalidPartialAmount),
		errors.Is(err, escrowdomain.ErrInvalidResolutionAction),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNegativeAmount),
		errors.Is(err, money.ErrAmountExceedsMaxSafeInt):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an
// error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		return nil, err
	}
	return &input, nil
}
