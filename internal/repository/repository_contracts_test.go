package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func addTestContract(t *testing.T, repo *Repository, tenderId, actorId int) models.Contract {
	contract, err := repo.AddContract(context.Background(), models.Contract{
		TenderId:      tenderId,
		Content:       "terms",
		ScopeOfWork:   "full delivery",
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(90 * 24 * time.Hour),
		Status:        models.ContractDraft,
		VettingStatus: models.VettingPending,
	}, actorId)
	if err != nil {
		t.Fatalf("Could not add contract: %s", err)
	}
	return contract
}

func TestAddContract(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	contract := addTestContract(t, repo, tender.Id, admin.Id)
	require.Equal(t, models.ContractDraft, contract.Status)
	require.Equal(t, models.VettingPending, contract.VettingStatus)
	require.Nil(t, contract.SignedDate)

	// one live contract per tender
	_, err := repo.AddContract(ctx, contract, admin.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.AddContract(ctx, models.Contract{TenderId: 999999, Status: models.ContractDraft}, admin.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSignContract(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	contract := addTestContract(t, repo, tender.Id, admin.Id)

	// walk the tender to approved first
	for _, next := range []models.TenderStatus{
		models.TenderSubmitted, models.TenderUnderReview, models.TenderTechnicalReview,
		models.TenderFinancialReview, models.TenderClientApprovalPending, models.TenderApproved,
	} {
		_, err := repo.TransitionTender(ctx, tender.Id, next, admin.Id)
		require.NoError(t, err)
	}

	signed, err := repo.SignContract(ctx, contract.Id, admin.Id)
	require.NoError(t, err)
	require.Equal(t, models.ContractSigned, signed.Status)
	require.NotNil(t, signed.SignedDate)

	// signing moves the approved tender forward in the same transaction
	fetched, err := repo.TenderById(ctx, tender.Id)
	require.NoError(t, err)
	require.Equal(t, models.TenderContractSigned, fetched.Status)

	// a signed contract cannot be signed again
	_, err = repo.SignContract(ctx, contract.Id, admin.Id)
	RequireInvalidTransition(t, err)
}

func TestContractTransitionsAndVetting(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	contract := addTestContract(t, repo, tender.Id, admin.Id)

	// draft can only be signed, not activated directly
	_, err := repo.TransitionContract(ctx, contract.Id, models.ContractActive, admin.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.SignContract(ctx, contract.Id, admin.Id)
	require.NoError(t, err)

	updated, err := repo.TransitionContract(ctx, contract.Id, models.ContractActive, admin.Id)
	require.NoError(t, err)
	require.Equal(t, models.ContractActive, updated.Status)

	updated, err = repo.TransitionContract(ctx, contract.Id, models.ContractExpired, admin.Id)
	require.NoError(t, err)
	require.Equal(t, models.ContractExpired, updated.Status)

	// vetting resolves exactly once
	vetted, err := repo.VetContract(ctx, contract.Id, models.VettingVetted, admin.Id)
	require.NoError(t, err)
	require.Equal(t, models.VettingVetted, vetted.VettingStatus)

	_, err = repo.VetContract(ctx, contract.Id, models.VettingRejected, admin.Id)
	RequireInvalidTransition(t, err)
}
