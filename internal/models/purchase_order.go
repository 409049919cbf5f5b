package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type POStatus string

const (
	POCreated   POStatus = "Created"
	POConfirmed POStatus = "Confirmed"
	POCompleted POStatus = "Completed"
)

func ValidPOStatus(s POStatus) bool {
	switch s {
	case POCreated, POConfirmed, POCompleted:
		return true
	default:
		return false
	}
}

type PurchaseOrder struct {
	Id           int             `db:"id" json:"id"`
	PONumber     string          `db:"po_number" json:"poNumber"`
	TenderId     int             `db:"tender_id" json:"tenderId"`
	VendorId     int             `db:"vendor_id" json:"vendorId"`
	Items        string          `db:"items" json:"items"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status       POStatus        `db:"status" json:"status"`
	ApprovedBy   string          `db:"approved_by" json:"approvedBy"`
	Acknowledged bool            `db:"acknowledged" json:"acknowledged"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}
