package ledger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/innofund/escrow/internal/fixtures"
	ledgerdomain "github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
	"github.com/innofund/escrow/pkg/notification"
	ledgersvc "github.com/innofund/escrow/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(state *fixtures.State) (*ledgersvc.Service, *notification.Dispatcher) {
	notifier := notification.NewDispatcher(slog.Default())
	svc := ledgersvc.NewService(fixtures.NewUnitOfWork(state), notifier, slog.Default())
	return svc, notifier
}

func TestOpenWallet(t *testing.T) {
	state := fixtures.NewState()
	svc, _ := newService(state)

	userID := uuid.New()
	w, err := svc.OpenWallet(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, userID, w.UserID)
	assert.True(t, w.Balance.IsZero())
	assert.Contains(t, state.Wallets, w.ID)
}

func TestRequestDeposit(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, _ := newService(state)

	tx, err := svc.RequestDeposit(context.Background(), w.ID, 250.00, "bank transfer")
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.StatusPending, tx.Status)
	assert.Equal(t, ledgerdomain.TypeDeposit, tx.Type)
	assert.Equal(t, int64(25000), tx.Amount.Cents())
	assert.Equal(t, int64(0), state.Wallets[w.ID].Balance.Cents(),
		"balance must not move before settlement")
}

func TestRequestDeposit_InvalidAmounts(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, _ := newService(state)

	for name, amount := range map[string]float64{
		"zero":     0,
		"negative": -10,
		"sub-cent": 10.001,
	} {
		_, err := svc.RequestDeposit(context.Background(), w.ID, amount, "")
		assert.Error(t, err, name)
	}
	assert.Empty(t, state.Transactions)
}

func TestRequestWithdrawal_InsufficientFunds(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 5000)
	svc, _ := newService(state)

	_, err := svc.RequestWithdrawal(context.Background(), w.ID, 100.00, "")
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	assert.Empty(t, state.Transactions)
}

func TestSettle_DepositApproved(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, notifier := newService(state)

	tx, err := svc.RequestDeposit(context.Background(), w.ID, 250.00, "bank transfer")
	require.NoError(t, err)

	settled, err := svc.Settle(context.Background(), tx.ID, true, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.StatusCompleted, settled.Status)
	require.NotNil(t, settled.CompletedAt)
	assert.Equal(t, int64(25000), state.Wallets[w.ID].Balance.Cents())
	assert.Equal(t, int64(25000), state.TotalCents())
	assert.Len(t, notifier.Delivered(), 1)
	assert.Equal(t, w.UserID, notifier.Delivered()[0].UserID)
}

func TestSettle_DepositRejected(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, _ := newService(state)

	tx, err := svc.RequestDeposit(context.Background(), w.ID, 250.00, "")
	require.NoError(t, err)

	settled, err := svc.Settle(context.Background(), tx.ID, false, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.StatusRejected, settled.Status)
	assert.Equal(t, int64(0), state.Wallets[w.ID].Balance.Cents())
}

func TestSettle_WithdrawalApproved(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 50000)
	svc, _ := newService(state)

	tx, err := svc.RequestWithdrawal(context.Background(), w.ID, 200.00, "payout")
	require.NoError(t, err)

	settled, err := svc.Settle(context.Background(), tx.ID, true, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.StatusCompleted, settled.Status)
	assert.Equal(t, int64(30000), state.Wallets[w.ID].Balance.Cents())
}

func TestSettle_WithdrawalUncoverableAtSettlement(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 50000)
	svc, _ := newService(state)

	tx, err := svc.RequestWithdrawal(context.Background(), w.ID, 400.00, "payout")
	require.NoError(t, err)

	// Balance drops between request and settlement.
	drained := state.Wallets[w.ID]
	require.NoError(t, drained.Debit(money.MustFromCents(45000)))
	state.Wallets[w.ID] = drained

	settled, err := svc.Settle(context.Background(), tx.ID, true, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.StatusRejected, settled.Status)
	assert.True(t, strings.Contains(settled.Notes, "insufficient funds at settlement"))
	assert.Equal(t, int64(5000), state.Wallets[w.ID].Balance.Cents())
}

func TestSettle_AtMostOnce(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, _ := newService(state)

	tx, err := svc.RequestDeposit(context.Background(), w.ID, 250.00, "")
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), tx.ID, true, uuid.New())
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), tx.ID, true, uuid.New())
	assert.ErrorIs(t, err, ledgerdomain.ErrAlreadySettled)
	assert.Equal(t, int64(25000), state.Wallets[w.ID].Balance.Cents(),
		"replay must not double-apply the deposit")
}

func TestHistory(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 100000)
	other := fixtures.SeedWallet(state, uuid.New(), 0)
	svc, _ := newService(state)

	_, err := svc.RequestDeposit(context.Background(), w.ID, 100.00, "")
	require.NoError(t, err)
	_, err = svc.RequestWithdrawal(context.Background(), w.ID, 50.00, "")
	require.NoError(t, err)
	_, err = svc.RequestDeposit(context.Background(), other.ID, 75.00, "")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), w.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ledgerdomain.TypeDeposit, history[0].Type)
	assert.Equal(t, ledgerdomain.TypeWithdrawal, history[1].Type)
}
