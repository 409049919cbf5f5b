package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func TestMetricsSummary(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	finance := users[models.RoleFinance]
	reviewer := users[models.RoleTechnical]

	// two open tenders, one of them driven further down the pipeline
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	SeedTender(t, repo, users[models.RoleClient].Id)

	proposal := addTestProposal(t, repo, tender.Id, vendor.Id)
	underReview := models.ProposalUnderReview
	_, err := repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{Status: &underReview}, reviewer.Id)
	require.NoError(t, err)

	po := addTestPO(t, repo, tender.Id, vendor.Id)
	invoice := addTestInvoice(t, repo, po.Id, finance.Id, 900)
	_, err = repo.IssueInvoice(ctx, invoice.Id, finance.Id)
	require.NoError(t, err)

	// one verified payment reduces the outstanding balance, one stays pending
	verified := addTestPayment(t, repo, invoice.Id, finance.Id, 400)
	_, err = repo.VerifyPayment(ctx, verified.Id, nil, finance.Id)
	require.NoError(t, err)
	addTestPayment(t, repo, invoice.Id, finance.Id, 100)

	summary, err := repo.MetricsSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, summary.OpenTenders)
	require.Equal(t, 1, summary.ProposalsUnderReview)
	require.Equal(t, 1, summary.UnacknowledgedOrders)
	require.Equal(t, 1, summary.PendingPayments)
	require.True(t, summary.OutstandingBalance.Equal(decimal.NewFromInt(500)),
		"expected outstanding balance 500, got %s", summary.OutstandingBalance)

	// acknowledging the order drops it from the counter
	_, err = repo.AcknowledgePO(ctx, po.Id, vendor.Id)
	require.NoError(t, err)

	summary, err = repo.MetricsSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, summary.UnacknowledgedOrders)
}

func TestTenderScores(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	reviewer := users[models.RoleTechnical]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	// a tender without proposals contributes no row
	scores, err := repo.TenderScores(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, scores)

	for _, score := range []float64{80, 90} {
		proposal := addTestProposal(t, repo, tender.Id, vendor.Id)
		s := score
		_, err = repo.UpdateProposal(ctx, proposal.Id, models.ProposalUpdate{TechnicalScore: &s}, reviewer.Id)
		require.NoError(t, err)
	}

	scores, err = repo.TenderScores(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.Equal(t, tender.Id, scores[0].TenderId)
	require.Equal(t, 2, scores[0].ProposalCount)
	require.InDelta(t, 85.0, scores[0].AverageScore, 0.001)
}
