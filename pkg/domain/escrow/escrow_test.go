package escrow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockedAccount(t *testing.T, cents int64) *escrow.Account {
	t.Helper()
	return escrow.NewAccount(uuid.New(), uuid.New(), money.MustFromCents(cents))
}

func TestRelease(t *testing.T) {
	a := lockedAccount(t, 40000)
	approver := uuid.New()

	require.NoError(t, a.Release(approver))
	assert.Equal(t, escrow.StatusReleased, a.Status)
	require.NotNil(t, a.ReleasedBy)
	assert.Equal(t, approver, *a.ReleasedBy)
	assert.NotNil(t, a.ReleasedAt)
}

func TestRelease_AlreadySettled(t *testing.T) {
	a := lockedAccount(t, 40000)
	require.NoError(t, a.Release(uuid.New()))

	assert.ErrorIs(t, a.Release(uuid.New()), escrow.ErrEscrowAlreadySettled)
	assert.ErrorIs(t, a.Return(uuid.New(), "late"), escrow.ErrEscrowAlreadySettled)
	assert.ErrorIs(t, a.PartialRelease(uuid.New(), money.MustFromCents(100)), escrow.ErrEscrowAlreadySettled)
}

func TestReturn(t *testing.T) {
	a := lockedAccount(t, 40000)
	require.NoError(t, a.Return(uuid.New(), "milestone rejected"))
	assert.Equal(t, escrow.StatusReturned, a.Status)
	assert.Equal(t, "milestone rejected", a.ReturnReason)

	assert.ErrorIs(t, a.Release(uuid.New()), escrow.ErrEscrowAlreadySettled)
}

func TestPartialRelease(t *testing.T) {
	a := lockedAccount(t, 40000)
	require.NoError(t, a.PartialRelease(uuid.New(), money.MustFromCents(15000)))
	assert.Equal(t, escrow.StatusPartiallyReleased, a.Status)

	remainder, err := a.Remainder()
	require.NoError(t, err)
	assert.Equal(t, int64(25000), remainder.Cents())
}

func TestPartialRelease_InvalidAmounts(t *testing.T) {
	for name, cents := range map[string]int64{
		"zero":          0,
		"equal":         40000,
		"exceeds total": 50000,
	} {
		t.Run(name, func(t *testing.T) {
			a := lockedAccount(t, 40000)
			err := a.PartialRelease(uuid.New(), money.MustFromCents(cents))
			assert.ErrorIs(t, err, escrow.ErrInvalidPartialAmount)
			assert.Equal(t, escrow.StatusLocked, a.Status)
		})
	}
}

func TestDispute_ResolveOnce(t *testing.T) {
	d := escrow.NewDispute(uuid.New(), uuid.New(), "quality", "work not delivered")
	require.Equal(t, escrow.DisputeOpen, d.Status)

	require.NoError(t, d.Resolve(uuid.New(), escrow.ResolutionReturn, "work not delivered", nil))
	assert.Equal(t, escrow.DisputeResolved, d.Status)

	err := d.Resolve(uuid.New(), escrow.ResolutionRelease, "", nil)
	assert.ErrorIs(t, err, escrow.ErrDisputeAlreadyResolved)
}

func TestDispute_InvalidAction(t *testing.T) {
	d := escrow.NewDispute(uuid.New(), uuid.New(), "quality", "")
	err := d.Resolve(uuid.New(), escrow.ResolutionAction("split"), "", nil)
	assert.ErrorIs(t, err, escrow.ErrInvalidResolutionAction)
	assert.Equal(t, escrow.DisputeOpen, d.Status)
}
