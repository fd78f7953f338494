package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestWalletRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := walletRepository{db: db}
	walletID := uuid.New()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at", "updated_at"}).
		AddRow(walletID, userID, int64(25000), time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(`SELECT (.+) FROM "wallets" WHERE id = (.+)`).
		WithArgs(walletID, 1).
		WillReturnRows(rows)

	w, err := repo.Get(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, walletID, w.ID)
	assert.Equal(t, int64(25000), w.Balance.Cents())

	mock.ExpectQuery(`SELECT (.+) FROM "wallets" WHERE id = (.+)`).
		WithArgs(walletID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err = repo.Get(context.Background(), walletID)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestWalletRepository_GetForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := walletRepository{db: db}
	walletID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at", "updated_at"}).
		AddRow(walletID, uuid.New(), int64(0), time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(`SELECT (.+) FROM "wallets" WHERE id = (.+) FOR UPDATE`).
		WithArgs(walletID, 1).
		WillReturnRows(rows)

	_, err := repo.GetForUpdate(context.Background(), walletID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := walletRepository{db: db}
	w := wallet.New(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "wallets" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), w))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "wallets" (.+) VALUES (.+)`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	require.Error(t, repo.Create(context.Background(), w))
}

func TestWalletRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := walletRepository{db: db}
	w := wallet.New(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "wallets" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), w)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestEscrowRepository_Create_DuplicateMilestone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := escrowRepository{db: db}
	acct := escrow.NewAccount(uuid.New(), uuid.New(), money.MustFromCents(40000))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "escrow_accounts" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), acct)
	assert.ErrorIs(t, err, escrow.ErrEscrowAlreadyExists)
}

func TestDisputeRepository_Create_DuplicateOpen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := disputeRepository{db: db}
	d := escrow.NewDispute(uuid.New(), uuid.New(), "scope", "missing deliverable")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "disputes" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), d)
	assert.ErrorIs(t, err, escrow.ErrOpenDisputeExists)
}

func TestDisputeRepository_OpenExistsForEscrow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := disputeRepository{db: db}
	escrowID := uuid.New()

	mock.ExpectQuery(`SELECT count(.+) FROM "disputes" WHERE escrow_account_id = (.+) AND status = (.+)`).
		WithArgs(escrowID, "open").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	open, err := repo.OpenExistsForEscrow(context.Background(), escrowID)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestTransactionRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := transactionRepository{db: db}
	txID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "transactions" WHERE id = (.+)`).
		WithArgs(txID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), txID)
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestTransactionRepository_ListByWallet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := transactionRepository{db: db}
	walletID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "wallet_id", "type", "status", "amount", "notes", "created_at"}).
		AddRow(uuid.New(), walletID, "deposit", "completed", int64(10000), "", time.Now().UTC()).
		AddRow(uuid.New(), walletID, "withdrawal", "pending", int64(5000), "", time.Now().UTC())
	mock.ExpectQuery(`SELECT (.+) FROM "transactions" WHERE wallet_id = (.+) ORDER BY created_at ASC`).
		WithArgs(walletID).
		WillReturnRows(rows)

	txs, err := repo.ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, ledger.TypeDeposit, txs[0].Type)
	assert.Equal(t, ledger.TypeWithdrawal, txs[1].Type)
}
