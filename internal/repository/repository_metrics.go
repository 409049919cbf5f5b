package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

// MetricsSummary aggregates the dashboard counters in one round trip per
// counter. The numbers are a point-in-time snapshot, not a consistent read.
func (repo *Repository) MetricsSummary(ctx context.Context) (models.MetricsSummary, error) {
	var summary models.MetricsSummary

	query := `
	SELECT COALESCE(SUM(i.total_payable), 0) - COALESCE((
		SELECT SUM(p.amount_paid) FROM payments p
		JOIN invoices pi ON pi.id = p.invoice_id
		WHERE p.status = $1 AND pi.status <> $2
	), 0)
	FROM invoices i
	WHERE i.status <> $2
	`
	err := repo.db.GetContext(ctx, &summary.OutstandingBalance, query,
		models.PaymentVerified, models.InvoicePaid)
	if err != nil {
		return summary, fmt.Errorf("repository.Repository.MetricsSummary: %w", err)
	}

	counters := []struct {
		dst   *int
		query string
		arg   interface{}
	}{
		{&summary.OpenTenders, `SELECT COUNT(*) FROM tenders WHERE status = $1`, models.TenderOpen},
		{&summary.ProposalsUnderReview, `SELECT COUNT(*) FROM proposals WHERE status = $1`, models.ProposalUnderReview},
		{&summary.UnacknowledgedOrders, `SELECT COUNT(*) FROM purchase_orders WHERE acknowledged = FALSE AND status = $1`, models.POCreated},
		{&summary.PendingPayments, `SELECT COUNT(*) FROM payments WHERE status = $1`, models.PaymentPending},
	}

	for _, c := range counters {
		err = repo.db.GetContext(ctx, c.dst, c.query, c.arg)
		if err != nil {
			return summary, fmt.Errorf("repository.Repository.MetricsSummary: %w", err)
		}
	}

	return summary, nil
}

// TenderScores lists per-tender proposal counts and average technical scores
// for tenders that have at least one proposal.
func (repo *Repository) TenderScores(ctx context.Context, limit, offset int) ([]models.TenderScore, error) {
	query := `
	SELECT tender_id, COUNT(*) AS proposal_count, AVG(technical_score) AS average_score
	FROM proposals
	GROUP BY tender_id
	ORDER BY tender_id
	LIMIT $1
	OFFSET $2
	`

	scores := []models.TenderScore{}
	err := repo.db.SelectContext(ctx, &scores, query, nullPositive(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.TenderScores: %w", err)
	}
	return scores, nil
}
