package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type disputeRepository struct {
	db *gorm.DB
}

// NewDisputeRepository creates a dispute repository using the provided
// *gorm.DB session.
func NewDisputeRepository(db *gorm.DB) repo.DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Get(ctx context.Context, id uuid.UUID) (*escrow.Dispute, error) {
	var m Dispute
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, escrow.ErrDisputeNotFound, nil)
	}
	return disputeToDomain(&m), nil
}

func (r *disputeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Dispute, error) {
	var m Dispute
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, escrow.ErrDisputeNotFound, nil)
	}
	return disputeToDomain(&m), nil
}

func (r *disputeRepository) OpenExistsForEscrow(ctx context.Context, escrowAccountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Dispute{}).
		Where("escrow_account_id = ? AND status = ?", escrowAccountID, string(escrow.DisputeOpen)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the dispute; the partial unique index on open
// disputes turns a racing duplicate into ErrOpenDisputeExists.
func (r *disputeRepository) Create(ctx context.Context, d *escrow.Dispute) error {
	m := disputeToModel(d)
	return mapGormError(r.db.WithContext(ctx).Create(&m).Error,
		escrow.ErrDisputeNotFound, escrow.ErrOpenDisputeExists)
}

func (r *disputeRepository) Update(ctx context.Context, d *escrow.Dispute) error {
	m := disputeToModel(d)
	result := r.db.WithContext(ctx).Model(&Dispute{}).Where("id = ?", m.ID).Updates(map[string]any{
		"status":            m.Status,
		"resolution":        m.Resolution,
		"resolution_action": m.ResolutionAction,
		"resolution_amount": m.ResolutionAmount,
		"resolved_by":       m.ResolvedBy,
		"resolved_at":       m.ResolvedAt,
		"updated_at":        m.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return escrow.ErrDisputeNotFound
	}
	return nil
}
