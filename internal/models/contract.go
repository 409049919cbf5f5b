package models

import "time"

type ContractStatus string

const (
	ContractDraft   ContractStatus = "Draft"
	ContractSigned  ContractStatus = "Signed"
	ContractActive  ContractStatus = "Active"
	ContractExpired ContractStatus = "Expired"
)

func ValidContractStatus(s ContractStatus) bool {
	switch s {
	case ContractDraft, ContractSigned, ContractActive, ContractExpired:
		return true
	default:
		return false
	}
}

var contractEdges = map[ContractStatus][]ContractStatus{
	ContractDraft:  {ContractSigned},
	ContractSigned: {ContractActive},
	ContractActive: {ContractExpired},
}

func ContractCanTransition(from, to ContractStatus) bool {
	for _, next := range contractEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type VettingStatus string

const (
	VettingPending  VettingStatus = "Pending"
	VettingVetted   VettingStatus = "Vetted"
	VettingRejected VettingStatus = "Rejected"
)

func ValidVettingStatus(s VettingStatus) bool {
	switch s {
	case VettingPending, VettingVetted, VettingRejected:
		return true
	default:
		return false
	}
}

type Contract struct {
	Id            int            `db:"id" json:"id"`
	TenderId      int            `db:"tender_id" json:"tenderId"`
	Content       string         `db:"content" json:"content"`
	ScopeOfWork   string         `db:"scope_of_work" json:"scopeOfWork"`
	StartDate     time.Time      `db:"start_date" json:"startDate"`
	EndDate       time.Time      `db:"end_date" json:"endDate"`
	Status        ContractStatus `db:"status" json:"status"`
	VettingStatus VettingStatus  `db:"vetting_status" json:"vettingStatus"`
	SignedDate    *time.Time     `db:"signed_date" json:"signedDate"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"-"`
}
