package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func addTestProposal(t *testing.T, repo *Repository, tenderId, vendorId int) models.Proposal {
	proposal, err := repo.AddProposal(context.Background(), models.Proposal{
		TenderId:       tenderId,
		VendorId:       vendorId,
		TechnicalInput: "baseline offer",
		FinancialInput: decimal.NewFromInt(5000),
		Status:         models.ProposalSubmitted,
	}, vendorId)
	if err != nil {
		t.Fatalf("Could not add proposal: %s", err)
	}
	return proposal
}

func TestProposalVersioning(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	vendor := users[models.RoleVendor]

	// resubmissions by the same vendor count up
	for want := 1; want <= 3; want++ {
		proposal := addTestProposal(t, repo, tender.Id, vendor.Id)
		require.Equal(t, want, proposal.Version)
	}

	// another vendor starts its own version sequence
	other, err := repo.AddUser(ctx, models.User{Username: "second_vendor", Password: "pw", Role: models.RoleVendor})
	require.NoError(t, err)
	proposal := addTestProposal(t, repo, tender.Id, other.Id)
	require.Equal(t, 1, proposal.Version)

	// unknown tender surfaces as not found via the FK
	_, err = repo.AddProposal(ctx, models.Proposal{
		TenderId:       999999,
		VendorId:       vendor.Id,
		FinancialInput: decimal.NewFromInt(100),
		Status:         models.ProposalSubmitted,
	}, vendor.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateProposal(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	vendor := users[models.RoleVendor]
	reviewer := users[models.RoleTechnical]

	proposal := addTestProposal(t, repo, tender.Id, vendor.Id)

	// sparse update touches only supplied fields
	score := 87.5
	remarks := "solid submission"
	updated, err := repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{
		TechnicalScore:   &score,
		TechnicalRemarks: &remarks,
	}, reviewer.Id)
	require.NoError(t, err)
	require.Equal(t, score, updated.TechnicalScore)
	require.Equal(t, remarks, updated.TechnicalRemarks)
	require.Equal(t, proposal.TechnicalInput, updated.TechnicalInput)
	require.Equal(t, models.ProposalSubmitted, updated.Status)

	// status moves only along allowed edges
	bad := models.ProposalApproved
	_, err = repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{Status: &bad}, reviewer.Id)
	RequireInvalidTransition(t, err)

	for _, next := range []models.ProposalStatus{models.ProposalUnderReview, models.ProposalShortlisted, models.ProposalApproved} {
		status := next
		updated, err = repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{Status: &status}, reviewer.Id)
		require.NoError(t, err, "transition to %s", next)
		require.Equal(t, next, updated.Status)
	}

	// approved is terminal
	rejectedStatus := models.ProposalRejected
	_, err = repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{Status: &rejectedStatus}, reviewer.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.UpdateProposal(ctx, 999999, models.ProposalUpdate{TechnicalScore: &score}, reviewer.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestProposalsFilters(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	tender1 := SeedTender(t, repo, users[models.RoleClient].Id)
	tender2 := SeedTender(t, repo, users[models.RoleClient].Id)

	addTestProposal(t, repo, tender1.Id, vendor.Id)
	addTestProposal(t, repo, tender1.Id, vendor.Id)
	addTestProposal(t, repo, tender2.Id, vendor.Id)

	proposals, err := repo.Proposals(ctx, 0, 0, tender1.Id, 0)
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	proposals, err = repo.Proposals(ctx, 0, 0, 0, vendor.Id)
	require.NoError(t, err)
	require.Len(t, proposals, 3)

	proposals, err = repo.Proposals(ctx, 1, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
}
