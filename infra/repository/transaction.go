package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/ledger"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction log repository using
// the provided *gorm.DB session.
func NewTransactionRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, ledger.ErrTransactionNotFound, nil)
	}
	return transactionToDomain(&m), nil
}

// GetForUpdate locks the transaction row so two settlement attempts on
// the same pending transaction serialize; the second sees the settled
// status.
func (r *transactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, ledger.ErrTransactionNotFound, nil)
	}
	return transactionToDomain(&m), nil
}

func (r *transactionRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	m := transactionToModel(t)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) Update(ctx context.Context, t *ledger.Transaction) error {
	m := transactionToModel(t)
	result := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", m.ID).Updates(map[string]any{
		"status":       m.Status,
		"notes":        m.Notes,
		"settled_by":   m.SettledBy,
		"completed_at": m.CompletedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*ledger.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		result = append(result, transactionToDomain(&models[i]))
	}
	return result, nil
}
