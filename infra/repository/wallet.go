package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/wallet"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a wallet repository using the provided
// *gorm.DB session.
func NewWalletRepository(db *gorm.DB) repo.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Get(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	var m Wallet
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, wallet.ErrWalletNotFound, nil)
	}
	return walletToDomain(&m), nil
}

func (r *walletRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var m Wallet
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, mapGormError(err, wallet.ErrWalletNotFound, nil)
	}
	return walletToDomain(&m), nil
}

// GetForUpdate locks the wallet row for the rest of the transaction so
// concurrent debits are linearized.
func (r *walletRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	var m Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, wallet.ErrWalletNotFound, nil)
	}
	return walletToDomain(&m), nil
}

func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	m := walletToModel(w)
	return mapGormError(r.db.WithContext(ctx).Create(&m).Error, wallet.ErrWalletNotFound, nil)
}

func (r *walletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	m := walletToModel(w)
	result := r.db.WithContext(ctx).Model(&Wallet{}).Where("id = ?", m.ID).Updates(map[string]any{
		"balance":    m.Balance,
		"updated_at": m.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return wallet.ErrWalletNotFound
	}
	return nil
}
