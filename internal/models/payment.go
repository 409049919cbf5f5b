package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentVerified PaymentStatus = "Verified"
	PaymentFailed   PaymentStatus = "Failed"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentFailed:
		return true
	default:
		return false
	}
}

type Payment struct {
	Id             int             `db:"id" json:"id"`
	InvoiceId      int             `db:"invoice_id" json:"invoiceId"`
	AmountPaid     decimal.Decimal `db:"amount_paid" json:"amountPaid"`
	PaymentMode    string          `db:"payment_mode" json:"paymentMode"`
	TransactionId  string          `db:"transaction_id" json:"transactionId"`
	PaymentDate    time.Time       `db:"payment_date" json:"paymentDate"`
	CompletionDate *time.Time      `db:"completion_date" json:"completionDate"`
	Status         PaymentStatus   `db:"status" json:"status"`
}
