package models

import "time"

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "Pending"
	MilestoneInProgress MilestoneStatus = "In Progress"
	MilestoneCompleted  MilestoneStatus = "Completed"
)

func ValidMilestoneStatus(s MilestoneStatus) bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted:
		return true
	default:
		return false
	}
}

type InspectionStatus string

const (
	InspectionPending InspectionStatus = "Pending"
	InspectionPassed  InspectionStatus = "Passed"
	InspectionFailed  InspectionStatus = "Failed"
)

func ValidInspectionStatus(s InspectionStatus) bool {
	switch s {
	case InspectionPending, InspectionPassed, InspectionFailed:
		return true
	default:
		return false
	}
}

type Milestone struct {
	Id               int              `db:"id" json:"id"`
	TenderId         int              `db:"tender_id" json:"tenderId"`
	Title            string           `db:"title" json:"title"`
	Description      string           `db:"description" json:"description"`
	Status           MilestoneStatus  `db:"status" json:"status"`
	InspectionStatus InspectionStatus `db:"inspection_status" json:"inspectionStatus"`
	QualityRemarks   string           `db:"quality_remarks" json:"qualityRemarks"`
	ProofURL         string           `db:"proof_url" json:"proofUrl"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"-"`
}

type MilestoneUpdate struct {
	Title            *string           `json:"title"`
	Description      *string           `json:"description"`
	Status           *MilestoneStatus  `json:"status"`
	InspectionStatus *InspectionStatus `json:"inspectionStatus"`
	QualityRemarks   *string           `json:"qualityRemarks"`
	ProofURL         *string           `json:"proofUrl"`
}

func (u MilestoneUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.InspectionStatus == nil && u.QualityRemarks == nil && u.ProofURL == nil
}
