package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type escrowRepository struct {
	db *gorm.DB
}

// NewEscrowRepository creates an escrow account repository using the
// provided *gorm.DB session.
func NewEscrowRepository(db *gorm.DB) repo.EscrowRepository {
	return &escrowRepository{db: db}
}

func (r *escrowRepository) Get(ctx context.Context, id uuid.UUID) (*escrow.Account, error) {
	var m EscrowAccount
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, escrow.ErrEscrowNotFound, nil)
	}
	return escrowToDomain(&m), nil
}

// GetForUpdate locks the escrow row so concurrent settlement attempts
// are linearized; the loser of the race sees the settled status.
func (r *escrowRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*escrow.Account, error) {
	var m EscrowAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, escrow.ErrEscrowNotFound, nil)
	}
	return escrowToDomain(&m), nil
}

func (r *escrowRepository) GetByMilestone(ctx context.Context, milestoneID uuid.UUID) (*escrow.Account, error) {
	var m EscrowAccount
	if err := r.db.WithContext(ctx).First(&m, "milestone_id = ?", milestoneID).Error; err != nil {
		return nil, mapGormError(err, escrow.ErrEscrowNotFound, nil)
	}
	return escrowToDomain(&m), nil
}

// Create inserts the account; the unique index on milestone_id turns a
// racing duplicate lock into ErrEscrowAlreadyExists.
func (r *escrowRepository) Create(ctx context.Context, a *escrow.Account) error {
	m := escrowToModel(a)
	return mapGormError(r.db.WithContext(ctx).Create(&m).Error,
		escrow.ErrEscrowNotFound, escrow.ErrEscrowAlreadyExists)
}

func (r *escrowRepository) Update(ctx context.Context, a *escrow.Account) error {
	m := escrowToModel(a)
	result := r.db.WithContext(ctx).Model(&EscrowAccount{}).Where("id = ?", m.ID).Updates(map[string]any{
		"status":         m.Status,
		"released_by":    m.ReleasedBy,
		"released_at":    m.ReleasedAt,
		"return_reason":  m.ReturnReason,
		"partial_amount": m.PartialAmount,
		"updated_at":     m.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return escrow.ErrEscrowNotFound
	}
	return nil
}
