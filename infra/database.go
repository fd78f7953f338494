package infra

import (
	"errors"

	"github.com/innofund/escrow/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabaseURL is returned when the connection string is missing
// from the environment.
var ErrNoDatabaseURL = errors.New("database url is not configured")

// NewDBConnection opens the postgres pool used by every unit of work.
// TranslateError is required: the repositories rely on duplicate-key
// violations surfacing as gorm.ErrDuplicatedKey to enforce the
// one-escrow-per-milestone and one-open-dispute-per-escrow indexes.
func NewDBConnection(cnf config.DB, appEnv string) (*gorm.DB, error) {
	if cnf.Url == "" {
		return nil, ErrNoDatabaseURL
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if appEnv == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger: gormLogger,
		// Every write already runs inside an explicit serializable
		// transaction started by the unit of work.
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)

	return db, nil
}
