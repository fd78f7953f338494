package dispute_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/innofund/escrow/internal/fixtures"
	escrowdomain "github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/notification"
	disputesvc "github.com/innofund/escrow/pkg/service/dispute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(state *fixtures.State) (*disputesvc.Service, *notification.Dispatcher) {
	notifier := notification.NewDispatcher(slog.Default())
	svc := disputesvc.NewService(fixtures.NewUnitOfWork(state), notifier, slog.Default())
	return svc, notifier
}

// scenario seeds a pool of 600.00 (after a 400.00 lock) with a locked
// escrow and an innovator wallet, matching the state after an escrow
// lock on a 1000.00 pool.
func scenario(t *testing.T) (*fixtures.State, *project.Project, *escrowdomain.Account, uuid.UUID) {
	t.Helper()
	state := fixtures.NewState()
	innovatorID := uuid.New()
	fixtures.SeedWallet(state, innovatorID, 0)
	proj := fixtures.SeedProject(state, innovatorID, project.StatusFullyFunded, 100000, 60000, 10000)
	ms := fixtures.SeedMilestone(state, proj.ID, milestone.StatusApproved, 40000)
	acct := fixtures.SeedEscrow(state, ms.ID, proj.ID, 40000)
	return state, proj, acct, innovatorID
}

func openDispute(t *testing.T, svc *disputesvc.Service, escrowID uuid.UUID) *escrowdomain.Dispute {
	t.Helper()
	d, err := svc.Open(context.Background(), disputesvc.OpenParams{
		EscrowID:    escrowID,
		RaisedBy:    uuid.New(),
		Reason:      "deliverable incomplete",
		Description: "half of the agreed scope is missing",
	})
	require.NoError(t, err)
	return d
}

func TestOpen(t *testing.T) {
	state, _, acct, _ := scenario(t)
	svc, notifier := newService(state)

	d := openDispute(t, svc, acct.ID)
	assert.Equal(t, escrowdomain.DisputeOpen, d.Status)
	assert.Equal(t, acct.ID, d.EscrowAccountID)
	assert.Len(t, notifier.Delivered(), 1)
	assert.Equal(t, "escrow_manager", notifier.Delivered()[0].Role)
}

func TestOpen_EscrowNotLocked(t *testing.T) {
	state, _, acct, _ := scenario(t)
	settled := state.Escrows[acct.ID]
	require.NoError(t, settled.Release(uuid.New()))
	state.Escrows[acct.ID] = settled

	svc, _ := newService(state)
	_, err := svc.Open(context.Background(), disputesvc.OpenParams{EscrowID: acct.ID, RaisedBy: uuid.New()})
	assert.ErrorIs(t, err, escrowdomain.ErrEscrowNotLocked)
}

func TestOpen_AtMostOneOpenDispute(t *testing.T) {
	state, _, acct, _ := scenario(t)
	svc, _ := newService(state)
	openDispute(t, svc, acct.ID)

	_, err := svc.Open(context.Background(), disputesvc.OpenParams{EscrowID: acct.ID, RaisedBy: uuid.New()})
	assert.ErrorIs(t, err, escrowdomain.ErrOpenDisputeExists)
}

func TestResolve_PartialRelease(t *testing.T) {
	state, proj, acct, innovatorID := scenario(t)
	before := state.TotalCents()
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)

	amount := 150.0
	resolved, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionPartialRelease,
		Resolution: "split per arbitration",
		Amount:     &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, escrowdomain.DisputeResolved, resolved.Status)
	require.NotNil(t, resolved.ResolutionAmount)
	assert.Equal(t, int64(15000), resolved.ResolutionAmount.Cents())

	var innovatorBalance int64
	for _, w := range state.Wallets {
		if w.UserID == innovatorID {
			innovatorBalance = w.Balance.Cents()
		}
	}
	assert.Equal(t, int64(15000), innovatorBalance, "innovator receives exactly the partial amount")
	assert.Equal(t, int64(85000), state.Projects[proj.ID].CurrentFunding.Cents(), "pool receives exactly the remainder")
	assert.Equal(t, escrowdomain.StatusPartiallyReleased, state.Escrows[acct.ID].Status)
	assert.Equal(t, before, state.TotalCents(), "split must be exact")
}

func TestResolve_Release(t *testing.T) {
	state, proj, acct, innovatorID := scenario(t)
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)

	_, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionRelease,
		Resolution: "work verified by arbiter",
	})
	require.NoError(t, err)

	var innovatorBalance int64
	for _, w := range state.Wallets {
		if w.UserID == innovatorID {
			innovatorBalance = w.Balance.Cents()
		}
	}
	assert.Equal(t, int64(40000), innovatorBalance)
	assert.Equal(t, int64(60000), state.Projects[proj.ID].CurrentFunding.Cents())
	assert.Equal(t, escrowdomain.StatusReleased, state.Escrows[acct.ID].Status)
}

func TestResolve_Return(t *testing.T) {
	state, proj, acct, _ := scenario(t)
	msID := acct.MilestoneID
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)

	_, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionReturn,
		Resolution: "deliverable rejected",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), state.Projects[proj.ID].CurrentFunding.Cents())
	assert.Equal(t, escrowdomain.StatusReturned, state.Escrows[acct.ID].Status)
	assert.Equal(t, milestone.StatusPending, state.Milestones[msID].Status)
}

func TestResolve_Twice(t *testing.T) {
	state, _, acct, _ := scenario(t)
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)

	_, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionRelease,
	})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionReturn,
	})
	assert.ErrorIs(t, err, escrowdomain.ErrDisputeAlreadyResolved)
}

func TestResolve_InvalidPartialAmounts(t *testing.T) {
	state, proj, acct, _ := scenario(t)
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)
	poolBefore := state.Projects[proj.ID].CurrentFunding.Cents()

	for name, amount := range map[string]*float64{
		"missing": nil,
		"zero":    ptr(0.0),
		"equal":   ptr(400.0),
		"above":   ptr(500.0),
	} {
		_, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
			DisputeID:  d.ID,
			ResolverID: uuid.New(),
			Action:     escrowdomain.ResolutionPartialRelease,
			Amount:     amount,
		})
		assert.ErrorIs(t, err, escrowdomain.ErrInvalidPartialAmount, name)
	}

	assert.Equal(t, escrowdomain.DisputeOpen, state.Disputes[d.ID].Status, "failed resolution must leave the dispute open")
	assert.Equal(t, escrowdomain.StatusLocked, state.Escrows[acct.ID].Status)
	assert.Equal(t, poolBefore, state.Projects[proj.ID].CurrentFunding.Cents())
}

func TestResolve_UnknownAction(t *testing.T) {
	state, _, acct, _ := scenario(t)
	svc, _ := newService(state)
	d := openDispute(t, svc, acct.ID)

	_, err := svc.Resolve(context.Background(), disputesvc.ResolveParams{
		DisputeID:  d.ID,
		ResolverID: uuid.New(),
		Action:     escrowdomain.ResolutionAction("split"),
	})
	assert.ErrorIs(t, err, escrowdomain.ErrInvalidResolutionAction)
}

func ptr(f float64) *float64 { return &f }
