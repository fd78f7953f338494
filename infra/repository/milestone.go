package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/milestone"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type milestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository creates a milestone repository using the
// provided *gorm.DB session.
func NewMilestoneRepository(db *gorm.DB) repo.MilestoneRepository {
	return &milestoneRepository{db: db}
}

func (r *milestoneRepository) Get(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error) {
	var m Milestone
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, milestone.ErrMilestoneNotFound, nil)
	}
	return milestoneToDomain(&m), nil
}

func (r *milestoneRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error) {
	var m Milestone
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, milestone.ErrMilestoneNotFound, nil)
	}
	return milestoneToDomain(&m), nil
}

func (r *milestoneRepository) Create(ctx context.Context, ms *milestone.Milestone) error {
	m := milestoneToModel(ms)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *milestoneRepository) Update(ctx context.Context, ms *milestone.Milestone) error {
	m := milestoneToModel(ms)
	result := r.db.WithContext(ctx).Model(&Milestone{}).Where("id = ?", m.ID).Updates(map[string]any{
		"status":     m.Status,
		"updated_at": m.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return milestone.ErrMilestoneNotFound
	}
	return nil
}
