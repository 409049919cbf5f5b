package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceIssued  InvoiceStatus = "Issued"
	InvoicePartial InvoiceStatus = "Partial"
	InvoicePaid    InvoiceStatus = "Paid"
)

func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePartial, InvoicePaid:
		return true
	default:
		return false
	}
}

// invoiceRank orders statuses along the forward-only chain
// Draft -> Issued -> Partial -> Paid.
var invoiceRank = map[InvoiceStatus]int{
	InvoiceDraft:   0,
	InvoiceIssued:  1,
	InvoicePartial: 2,
	InvoicePaid:    3,
}

func InvoiceStatusAdvances(from, to InvoiceStatus) bool {
	return invoiceRank[to] > invoiceRank[from]
}

type Invoice struct {
	Id             int             `db:"id" json:"id"`
	InvoiceNumber  string          `db:"invoice_number" json:"invoiceNumber"`
	POId           int             `db:"po_id" json:"poId"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"taxAmount"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discountAmount"`
	TotalPayable   decimal.Decimal `db:"total_payable" json:"totalPayable"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// PayableConsistent reports whether total_payable = amount + tax - discount.
func (i Invoice) PayableConsistent() bool {
	return i.TotalPayable.Equal(i.Amount.Add(i.TaxAmount).Sub(i.DiscountAmount))
}
