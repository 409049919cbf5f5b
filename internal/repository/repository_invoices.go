package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const invoiceColumns = `
	id, invoice_number, po_id, amount, tax_amount, discount_amount,
	total_payable, status, created_at
`

func (repo *Repository) AddInvoice(ctx context.Context, inv models.Invoice, actorId int) (models.Invoice, error) {
	query := `
	INSERT INTO invoices
		(invoice_number, po_id, amount, tax_amount, discount_amount, total_payable, status)
	VALUES
		($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return inv, fmt.Errorf("repository.Repository.AddInvoice: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query,
		inv.InvoiceNumber, inv.POId, inv.Amount, inv.TaxAmount, inv.DiscountAmount, inv.TotalPayable, inv.Status)
	err = row.Scan(&inv.Id, &inv.CreatedAt)
	if err != nil {
		return inv, fmt.Errorf("repository.Repository.AddInvoice: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionInvoiceCreated, models.EntityInvoice, inv.Id)
	if err != nil {
		return inv, fmt.Errorf("repository.Repository.AddInvoice: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return inv, fmt.Errorf("repository.Repository.AddInvoice: failed to commit transaction: %w", err)
	}

	return inv, nil
}

func (repo *Repository) InvoiceById(ctx context.Context, id int) (models.Invoice, error) {
	var invoice models.Invoice
	query := `SELECT` + invoiceColumns + `FROM invoices WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &invoice, query, id)
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.InvoiceById: %w", mapError(err))
	}
	return invoice, nil
}

func (repo *Repository) Invoices(ctx context.Context, limit, offset, poId int, status models.InvoiceStatus) ([]models.Invoice, error) {
	query := `
	SELECT` + invoiceColumns + `
	FROM invoices
	WHERE ($3 = 0 OR po_id = $3) AND ($4 = '' OR status = $4)
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	invoices := []models.Invoice{}
	err := repo.db.SelectContext(ctx, &invoices, query, nullPositive(limit), offset, poId, string(status))
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Invoices: %w", err)
	}
	return invoices, nil
}

// IssueInvoice moves a Draft invoice to Issued, opening it for payments.
func (repo *Repository) IssueInvoice(ctx context.Context, id int, actorId int) (models.Invoice, error) {
	var invoice models.Invoice

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: failed to start transaction: %w", err)
	}

	query := `SELECT` + invoiceColumns + `FROM invoices WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &invoice, query, id)
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if invoice.Status != models.InvoiceDraft {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: %w: invoice is %s, not %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), invoice.Status, models.InvoiceDraft)
	}

	_, err = tx.ExecContext(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, models.InvoiceIssued, id)
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionInvoiceIssued, models.EntityInvoice, id)
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return invoice, fmt.Errorf("repository.Repository.IssueInvoice: failed to commit transaction: %w", err)
	}

	invoice.Status = models.InvoiceIssued
	return invoice, nil
}
