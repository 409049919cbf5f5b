package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"procurement/internal/models"
)

const paymentColumns = `
	id, invoice_id, amount_paid, payment_mode, transaction_id,
	payment_date, completion_date, status
`

// AddPayment records a payment against an issued invoice and re-derives the
// invoice status from the running total inside the same transaction.
func (repo *Repository) AddPayment(ctx context.Context, p models.Payment, actorId int) (models.Payment, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: failed to start transaction: %w", err)
	}

	var invoice models.Invoice
	err = tx.GetContext(ctx, &invoice, `SELECT`+invoiceColumns+`FROM invoices WHERE id = $1 FOR UPDATE`, p.InvoiceId)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if invoice.Status == models.InvoiceDraft {
		return p, fmt.Errorf("repository.Repository.AddPayment: %w: invoice %d is not issued",
			wrapRollbackErr(tx, models.ErrInvalidTransition), invoice.Id)
	}

	query := `
	INSERT INTO payments
		(invoice_id, amount_paid, payment_mode, transaction_id, payment_date, completion_date, status)
	VALUES
		($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	row := tx.QueryRowContext(ctx, query,
		p.InvoiceId, p.AmountPaid, p.PaymentMode, p.TransactionId, p.PaymentDate, p.CompletionDate, p.Status)
	err = row.Scan(&p.Id)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.recomputeInvoiceStatus(ctx, tx, invoice)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionPaymentCreated, models.EntityPayment, p.Id)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddPayment: failed to commit transaction: %w", err)
	}

	return p, nil
}

func (repo *Repository) PaymentById(ctx context.Context, id int) (models.Payment, error) {
	var payment models.Payment
	query := `SELECT` + paymentColumns + `FROM payments WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &payment, query, id)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.PaymentById: %w", mapError(err))
	}
	return payment, nil
}

func (repo *Repository) Payments(ctx context.Context, limit, offset, invoiceId int, status models.PaymentStatus) ([]models.Payment, error) {
	query := `
	SELECT` + paymentColumns + `
	FROM payments
	WHERE ($3 = 0 OR invoice_id = $3) AND ($4 = '' OR status = $4)
	ORDER BY payment_date DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	payments := []models.Payment{}
	err := repo.db.SelectContext(ctx, &payments, query, nullPositive(limit), offset, invoiceId, string(status))
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Payments: %w", err)
	}
	return payments, nil
}

// VerifyPayment confirms a Pending payment and stamps its completion date.
// A nil completedAt defaults to the current time.
func (repo *Repository) VerifyPayment(ctx context.Context, id int, completedAt *time.Time, actorId int) (models.Payment, error) {
	return repo.resolvePayment(ctx, id, models.PaymentVerified, models.ActionPaymentVerified, completedAt, actorId)
}

// FailPayment marks a Pending payment Failed. The failed amount stops counting
// towards the invoice total, but a status the invoice already reached is kept.
func (repo *Repository) FailPayment(ctx context.Context, id int, actorId int) (models.Payment, error) {
	return repo.resolvePayment(ctx, id, models.PaymentFailed, models.ActionPaymentFailed, nil, actorId)
}

func (repo *Repository) resolvePayment(ctx context.Context, id int, to models.PaymentStatus, action string, completedAt *time.Time, actorId int) (models.Payment, error) {
	var payment models.Payment

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: failed to start transaction: %w", err)
	}

	query := `SELECT` + paymentColumns + `FROM payments WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &payment, query, id)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if payment.Status != models.PaymentPending {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w: payment is %s, not %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), payment.Status, models.PaymentPending)
	}

	completed := time.Now().UTC()
	if completedAt != nil {
		completed = completedAt.UTC()
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE payments SET status = $1, completion_date = $2 WHERE id = $3`, to, completed, id)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w", wrapRollbackErr(tx, err))
	}

	var invoice models.Invoice
	err = tx.GetContext(ctx, &invoice, `SELECT`+invoiceColumns+`FROM invoices WHERE id = $1 FOR UPDATE`, payment.InvoiceId)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w", wrapRollbackErr(tx, mapError(err)))
	}
	err = repo.recomputeInvoiceStatus(ctx, tx, invoice)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, action, models.EntityPayment, id)
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return payment, fmt.Errorf("repository.Repository.resolvePayment: failed to commit transaction: %w", err)
	}

	payment.Status = to
	payment.CompletionDate = &completed
	return payment, nil
}

// recomputeInvoiceStatus re-derives the invoice status from the sum of its
// non-Failed payments. The status only ever moves forward: a shrinking total
// never demotes an invoice that already reached Partial or Paid.
func (repo *Repository) recomputeInvoiceStatus(ctx context.Context, tx *sqlx.Tx, invoice models.Invoice) error {
	var paid decimal.Decimal
	err := tx.GetContext(ctx, &paid,
		`SELECT COALESCE(SUM(amount_paid), 0) FROM payments WHERE invoice_id = $1 AND status <> $2`,
		invoice.Id, models.PaymentFailed)
	if err != nil {
		return fmt.Errorf("recompute invoice status: %w", err)
	}

	derived := invoice.Status
	switch {
	case paid.GreaterThanOrEqual(invoice.TotalPayable):
		derived = models.InvoicePaid
	case paid.IsPositive():
		derived = models.InvoicePartial
	}

	if !models.InvoiceStatusAdvances(invoice.Status, derived) {
		return nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, derived, invoice.Id)
	if err != nil {
		return fmt.Errorf("recompute invoice status: %w", err)
	}
	return nil
}
