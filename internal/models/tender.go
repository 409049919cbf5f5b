package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TenderStatus string

const (
	TenderOpen                  TenderStatus = "open"
	TenderSubmitted             TenderStatus = "submitted"
	TenderUnderReview           TenderStatus = "under_review"
	TenderTechnicalReview       TenderStatus = "technical_review"
	TenderFinancialReview       TenderStatus = "financial_review"
	TenderClientApprovalPending TenderStatus = "client_approval_pending"
	TenderApproved              TenderStatus = "approved"
	TenderRejected              TenderStatus = "rejected"
	TenderContractSigned        TenderStatus = "contract_signed"
	TenderCompleted             TenderStatus = "completed"
	TenderClosed                TenderStatus = "closed"
)

func ValidTenderStatus(t TenderStatus) bool {
	switch t {
	case TenderOpen, TenderSubmitted, TenderUnderReview, TenderTechnicalReview,
		TenderFinancialReview, TenderClientApprovalPending, TenderApproved,
		TenderRejected, TenderContractSigned, TenderCompleted, TenderClosed:
		return true
	default:
		return false
	}
}

// Allowed edges: the forward review chain, plus rejection from any review state.
// Rejected, closed and rejected-adjacent terminal states have no outgoing edges.
var tenderEdges = map[TenderStatus][]TenderStatus{
	TenderOpen:                  {TenderSubmitted},
	TenderSubmitted:             {TenderUnderReview, TenderRejected},
	TenderUnderReview:           {TenderTechnicalReview, TenderRejected},
	TenderTechnicalReview:       {TenderFinancialReview, TenderRejected},
	TenderFinancialReview:       {TenderClientApprovalPending, TenderRejected},
	TenderClientApprovalPending: {TenderApproved, TenderRejected},
	TenderApproved:              {TenderContractSigned},
	TenderContractSigned:        {TenderCompleted},
	TenderCompleted:             {TenderClosed},
}

func TenderCanTransition(from, to TenderStatus) bool {
	for _, next := range tenderEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Tender struct {
	Id               int             `db:"id" json:"id"`
	TenderId         string          `db:"tender_id" json:"tenderId"`
	Title            string          `db:"title" json:"title"`
	Description      string          `db:"description" json:"description"`
	Deadline         time.Time       `db:"deadline" json:"deadline"`
	Status           TenderStatus    `db:"status" json:"status"`
	Budget           decimal.Decimal `db:"budget" json:"budget"`
	Quantity         int             `db:"quantity" json:"quantity"`
	EstimatedCost    decimal.Decimal `db:"estimated_cost" json:"estimatedCost"`
	DeliveryTimeline string          `db:"delivery_timeline" json:"deliveryTimeline"`
	SubmissionMethod string          `db:"submission_method" json:"submissionMethod"`
	ClientId         int             `db:"client_id" json:"clientId"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"-"`
}
