package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProposalStatus string

const (
	ProposalSubmitted   ProposalStatus = "Submitted"
	ProposalUnderReview ProposalStatus = "Under Review"
	ProposalShortlisted ProposalStatus = "Shortlisted"
	ProposalApproved    ProposalStatus = "Approved"
	ProposalRejected    ProposalStatus = "Rejected"
)

func ValidProposalStatus(s ProposalStatus) bool {
	switch s {
	case ProposalSubmitted, ProposalUnderReview, ProposalShortlisted, ProposalApproved, ProposalRejected:
		return true
	default:
		return false
	}
}

var proposalEdges = map[ProposalStatus][]ProposalStatus{
	ProposalSubmitted:   {ProposalUnderReview, ProposalRejected},
	ProposalUnderReview: {ProposalShortlisted, ProposalRejected},
	ProposalShortlisted: {ProposalApproved, ProposalRejected},
}

func ProposalCanTransition(from, to ProposalStatus) bool {
	for _, next := range proposalEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Proposal struct {
	Id               int             `db:"id" json:"id"`
	TenderId         int             `db:"tender_id" json:"tenderId"`
	VendorId         int             `db:"vendor_id" json:"vendorId"`
	TechnicalInput   string          `db:"technical_input" json:"technicalInput"`
	TechnicalScore   float64         `db:"technical_score" json:"technicalScore"`
	TechnicalRemarks string          `db:"technical_remarks" json:"technicalRemarks"`
	FinancialInput   decimal.Decimal `db:"financial_input" json:"financialInput"`
	FinancialRemarks string          `db:"financial_remarks" json:"financialRemarks"`
	MarginAnalysis   string          `db:"margin_analysis" json:"marginAnalysis"`
	DocumentURL      string          `db:"document_url" json:"documentUrl"`
	Version          int             `db:"version" json:"version"`
	Status           ProposalStatus  `db:"status" json:"status"`
	Feedback         string          `db:"feedback" json:"feedback"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"-"`
}

// ProposalUpdate carries a sparse field set: nil fields keep their stored values.
type ProposalUpdate struct {
	TechnicalInput   *string         `json:"technicalInput"`
	TechnicalScore   *float64        `json:"technicalScore"`
	TechnicalRemarks *string         `json:"technicalRemarks"`
	FinancialRemarks *string         `json:"financialRemarks"`
	MarginAnalysis   *string         `json:"marginAnalysis"`
	DocumentURL      *string         `json:"documentUrl"`
	Feedback         *string         `json:"feedback"`
	Status           *ProposalStatus `json:"status"`
}

func (u ProposalUpdate) Empty() bool {
	return u.TechnicalInput == nil && u.TechnicalScore == nil && u.TechnicalRemarks == nil &&
		u.FinancialRemarks == nil && u.MarginAnalysis == nil && u.DocumentURL == nil &&
		u.Feedback == nil && u.Status == nil
}
