package fixtures

import (
	"time"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/escrow"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/domain/wallet"
	"github.com/innofund/escrow/pkg/money"
)

// SeedWallet adds a wallet with the given balance and returns it.
func SeedWallet(s *State, userID uuid.UUID, balanceCents int64) *wallet.Wallet {
	w := wallet.New(userID)
	w.Balance = money.MustFromCents(balanceCents)
	s.Wallets[w.ID] = *w
	return w
}

// SeedProject adds a project funding pool and returns it.
func SeedProject(s *State, innovatorID uuid.UUID, status project.Status, goalCents, fundingCents, minInvestCents int64) *project.Project {
	now := time.Now().UTC()
	p := &project.Project{
		ID:             uuid.New(),
		InnovatorID:    innovatorID,
		Title:          "seeded project",
		FundingGoal:    money.MustFromCents(goalCents),
		CurrentFunding: money.MustFromCents(fundingCents),
		MinInvestment:  money.MustFromCents(minInvestCents),
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Projects[p.ID] = *p
	return p
}

// SeedMilestone adds a milestone and returns it.
func SeedMilestone(s *State, projectID uuid.UUID, status milestone.Status, requiredCents int64) *milestone.Milestone {
	now := time.Now().UTC()
	m := &milestone.Milestone{
		ID:              uuid.New(),
		ProjectID:       projectID,
		Title:           "seeded milestone",
		FundingRequired: money.MustFromCents(requiredCents),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Milestones[m.ID] = *m
	return m
}

// SeedEscrow adds a locked escrow account and returns it.
func SeedEscrow(s *State, milestoneID, projectID uuid.UUID, amountCents int64) *escrow.Account {
	a := escrow.NewAccount(milestoneID, projectID, money.MustFromCents(amountCents))
	s.Escrows[a.ID] = *a
	return a
}
