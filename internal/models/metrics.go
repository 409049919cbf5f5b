package models

import "github.com/shopspring/decimal"

// MetricsSummary is a read-only snapshot computed from the store; nothing in it
// is persisted.
type MetricsSummary struct {
	OutstandingBalance   decimal.Decimal `json:"outstandingBalance"`
	OpenTenders          int             `json:"openTenders"`
	ProposalsUnderReview int             `json:"proposalsUnderReview"`
	UnacknowledgedOrders int             `json:"unacknowledgedOrders"`
	PendingPayments      int             `json:"pendingPayments"`
}

type TenderScore struct {
	TenderId      int     `db:"tender_id" json:"tenderId"`
	ProposalCount int     `db:"proposal_count" json:"proposalCount"`
	AverageScore  float64 `db:"average_score" json:"averageScore"`
}
