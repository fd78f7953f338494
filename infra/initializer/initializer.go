// Package initializer wires the infrastructure dependencies: logger,
// database connection, migrations, repositories, and the notification
// dispatcher.
package initializer

import (
	"fmt"

	"github.com/innofund/escrow/infra"
	infrarepository "github.com/innofund/escrow/infra/repository"
	"github.com/innofund/escrow/pkg/app"
	"github.com/innofund/escrow/pkg/config"
	"github.com/innofund/escrow/pkg/notification"
)

// InitializeDependencies builds every infrastructure dependency the
// application needs.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	notifier := notification.NewDispatcher(logger)
	notifier.Register(notification.NewLogSink(logger))

	return &app.Deps{
		Uow:      infrarepository.NewUoW(db),
		Notifier: notifier,
		Logger:   logger,
	}, nil
}
