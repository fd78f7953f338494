package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle_Approve(t *testing.T) {
	tx := ledger.NewPending(uuid.New(), ledger.TypeDeposit, money.MustFromCents(5000), "bank transfer")
	approver := uuid.New()

	require.NoError(t, tx.Settle(true, approver))
	assert.Equal(t, ledger.StatusCompleted, tx.Status)
	require.NotNil(t, tx.SettledBy)
	assert.Equal(t, approver, *tx.SettledBy)
	assert.NotNil(t, tx.CompletedAt)
}

func TestSettle_Reject(t *testing.T) {
	tx := ledger.NewPending(uuid.New(), ledger.TypeWithdrawal, money.MustFromCents(5000), "")
	require.NoError(t, tx.Settle(false, uuid.New()))
	assert.Equal(t, ledger.StatusRejected, tx.Status)
}

func TestSettle_Terminal(t *testing.T) {
	tx := ledger.NewPending(uuid.New(), ledger.TypeDeposit, money.MustFromCents(5000), "")
	require.NoError(t, tx.Settle(true, uuid.New()))
	assert.ErrorIs(t, tx.Settle(true, uuid.New()), ledger.ErrAlreadySettled)
	assert.ErrorIs(t, tx.Settle(false, uuid.New()), ledger.ErrAlreadySettled)
}

func TestSettle_SinglePhaseTypes(t *testing.T) {
	walletID := uuid.New()
	tx := ledger.NewCompleted(&walletID, nil, nil, ledger.TypeInvestment, money.MustFromCents(5000), "")
	assert.ErrorIs(t, tx.Settle(true, uuid.New()), ledger.ErrNotSettleable)
	assert.Equal(t, ledger.StatusCompleted, tx.Status)
}

func TestNewCompleted_PoolMovementHasNoWallet(t *testing.T) {
	projectID := uuid.New()
	escrowID := uuid.New()
	tx := ledger.NewCompleted(nil, &projectID, &escrowID, ledger.TypeEscrowLock, money.MustFromCents(40000), "")
	assert.Nil(t, tx.WalletID)
	assert.Equal(t, ledger.StatusCompleted, tx.Status)
	assert.NotNil(t, tx.CompletedAt)
}
