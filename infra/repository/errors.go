package repository

import (
	"errors"

	"gorm.io/gorm"
)

// mapGormError converts store errors to the caller's domain sentinels.
// Database errors stay inside the infrastructure layer; services only
// ever see domain errors.
func mapGormError(err error, notFound, alreadyExists error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && alreadyExists != nil:
		return alreadyExists
	}
	return err
}
