// Package webapi provides the HTTP surface of the escrow engine. It is
// organized into sub-packages per domain:
//   - funding: investment endpoints
//   - escrow: escrow lock, release and return endpoints
//   - dispute: dispute endpoints
//   - ledger: wallet and transaction log endpoints
package webapi

import (
	"errors"
	"strings"

	"github.com/innofund/escrow/pkg/app"
	"github.com/innofund/escrow/webapi/common"
	disputeweb "github.com/innofund/escrow/webapi/dispute"
	escrowweb "github.com/innofund/escrow/webapi/escrow"
	fundingweb "github.com/innofund/escrow/webapi/funding"
	ledgerweb "github.com/innofund/escrow/webapi/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the rate limiter, panic recovery and
// every route group.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	// Uses X-Forwarded-For when behind a proxy, falling back to
	// X-Real-IP and then the direct IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c,
				fiber.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("InnoFund escrow API is running")
	})

	fundingweb.Routes(fiberApp, a.FundingService)
	escrowweb.Routes(fiberApp, a.EscrowService)
	disputeweb.Routes(fiberApp, a.DisputeService)
	ledgerweb.Routes(fiberApp, a.LedgerService)
	return fiberApp
}
