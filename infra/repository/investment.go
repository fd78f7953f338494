package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/project"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
)

type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates an investment record repository
// using the provided *gorm.DB session.
func NewInvestmentRepository(db *gorm.DB) repo.InvestmentRepository {
	return &investmentRepository{db: db}
}

func (r *investmentRepository) Create(ctx context.Context, inv *project.Investment) error {
	m := investmentToModel(inv)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *investmentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*project.Investment, error) {
	var models []Investment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*project.Investment, 0, len(models))
	for i := range models {
		result = append(result, investmentToDomain(&models[i]))
	}
	return result, nil
}
