package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func TestAddTender(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	client := users[models.RoleClient]

	before := CountAuditRows(t, repo)
	tender := SeedTender(t, repo, client.Id)

	require.NotZero(t, tender.Id)
	require.Equal(t, models.TenderOpen, tender.Status)
	require.Equal(t, before+1, CountAuditRows(t, repo), "tender creation should append exactly one audit row")

	fetched, err := repo.TenderById(ctx, tender.Id)
	require.NoError(t, err)
	require.Equal(t, tender.TenderId, fetched.TenderId)
	require.True(t, tender.Budget.Equal(fetched.Budget))

	// duplicate reference code is a conflict
	tender.Id = 0
	_, err = repo.AddTender(ctx, tender, client.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.TenderById(ctx, 999999)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestTenderTransitions(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	client := users[models.RoleClient]
	admin := users[models.RoleAdmin]

	tender := SeedTender(t, repo, client.Id)

	// skipping ahead is rejected and leaves the row untouched
	_, err := repo.TransitionTender(ctx, tender.Id, models.TenderApproved, admin.Id)
	RequireInvalidTransition(t, err)

	fetched, err := repo.TenderById(ctx, tender.Id)
	require.NoError(t, err)
	require.Equal(t, models.TenderOpen, fetched.Status)

	// walk the whole forward chain
	chain := []models.TenderStatus{
		models.TenderSubmitted, models.TenderUnderReview, models.TenderTechnicalReview,
		models.TenderFinancialReview, models.TenderClientApprovalPending, models.TenderApproved,
		models.TenderContractSigned, models.TenderCompleted, models.TenderClosed,
	}
	for _, next := range chain {
		updated, err := repo.TransitionTender(ctx, tender.Id, next, admin.Id)
		require.NoError(t, err, "transition to %s", next)
		require.Equal(t, next, updated.Status)
	}

	// closed is terminal
	_, err = repo.TransitionTender(ctx, tender.Id, models.TenderOpen, admin.Id)
	RequireInvalidTransition(t, err)

	// rejection branch terminates the lifecycle
	rejected := SeedTender(t, repo, client.Id)
	_, err = repo.TransitionTender(ctx, rejected.Id, models.TenderSubmitted, admin.Id)
	require.NoError(t, err)
	_, err = repo.TransitionTender(ctx, rejected.Id, models.TenderRejected, admin.Id)
	require.NoError(t, err)
	_, err = repo.TransitionTender(ctx, rejected.Id, models.TenderUnderReview, admin.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.TransitionTender(ctx, 999999, models.TenderSubmitted, admin.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestTendersFilters(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	client := users[models.RoleClient]
	admin := users[models.RoleAdmin]

	var all []models.Tender
	for i := 0; i < 6; i++ {
		all = append(all, SeedTender(t, repo, client.Id))
	}
	adminOwned := SeedTender(t, repo, admin.Id)

	_, err := repo.TransitionTender(ctx, all[0].Id, models.TenderSubmitted, admin.Id)
	require.NoError(t, err)

	tenders, err := repo.Tenders(ctx, 0, 0, "", 0)
	require.NoError(t, err)
	require.Len(t, tenders, len(all)+1)

	tenders, err = repo.Tenders(ctx, 0, 0, models.TenderSubmitted, 0)
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	require.Equal(t, all[0].Id, tenders[0].Id)

	tenders, err = repo.Tenders(ctx, 0, 0, "", admin.Id)
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	require.Equal(t, adminOwned.Id, tenders[0].Id)

	// pagination
	tenders, err = repo.Tenders(ctx, 3, 0, "", 0)
	require.NoError(t, err)
	require.Len(t, tenders, 3)

	tenders, err = repo.Tenders(ctx, 0, 5, "", 0)
	require.NoError(t, err)
	require.Len(t, tenders, len(all)+1-5)
}
