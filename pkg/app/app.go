// Package app assembles the application services from their
// infrastructure dependencies.
package app

import (
	"log/slog"

	"github.com/innofund/escrow/pkg/config"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/pkg/repository"
	disputesvc "github.com/innofund/escrow/pkg/service/dispute"
	escrowsvc "github.com/innofund/escrow/pkg/service/escrow"
	fundingsvc "github.com/innofund/escrow/pkg/service/funding"
	ledgersvc "github.com/innofund/escrow/pkg/service/ledger"
)

// Deps contains the infrastructure dependencies the services build on.
type Deps struct {
	Uow      repository.UnitOfWork
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// App holds the wired services.
type App struct {
	Deps   *Deps
	Config *config.App

	FundingService *fundingsvc.Service
	EscrowService  *escrowsvc.Service
	DisputeService *disputesvc.Service
	LedgerService  *ledgersvc.Service
}

// New wires every service against the shared unit of work, notifier
// and logger.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:           deps,
		Config:         cfg,
		FundingService: fundingsvc.NewService(deps.Uow, deps.Notifier, deps.Logger),
		EscrowService:  escrowsvc.NewService(deps.Uow, deps.Notifier, deps.Logger),
		DisputeService: disputesvc.NewService(deps.Uow, deps.Notifier, deps.Logger),
		LedgerService:  ledgersvc.NewService(deps.Uow, deps.Notifier, deps.Logger),
	}
}
