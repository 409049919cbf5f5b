package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func addTestInvoice(t *testing.T, repo *Repository, poId, actorId int, total int64) models.Invoice {
	amount := decimal.NewFromInt(total)
	invoice, err := repo.AddInvoice(context.Background(), models.Invoice{
		InvoiceNumber:  fmt.Sprintf("INV-%08d", time.Now().UnixNano()%100000000),
		POId:           poId,
		Amount:         amount,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalPayable:   amount,
		Status:         models.InvoiceDraft,
	}, actorId)
	if err != nil {
		t.Fatalf("Could not add invoice: %s", err)
	}
	return invoice
}

func TestAddInvoice(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	finance := users[models.RoleFinance]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	po := addTestPO(t, repo, tender.Id, vendor.Id)

	invoice := addTestInvoice(t, repo, po.Id, finance.Id, 900)
	require.Equal(t, models.InvoiceDraft, invoice.Status)

	fetched, err := repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.True(t, invoice.TotalPayable.Equal(fetched.TotalPayable))

	// duplicate number is a conflict, the caller regenerates
	invoice.Id = 0
	_, err = repo.AddInvoice(ctx, invoice, finance.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	invoices, err := repo.Invoices(ctx, 0, 0, po.Id, "")
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	invoices, err = repo.Invoices(ctx, 0, 0, 0, models.InvoiceDraft)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
}

func TestIssueInvoice(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	finance := users[models.RoleFinance]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	po := addTestPO(t, repo, tender.Id, vendor.Id)
	invoice := addTestInvoice(t, repo, po.Id, finance.Id, 900)

	issued, err := repo.IssueInvoice(ctx, invoice.Id, finance.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceIssued, issued.Status)

	// only a draft can be issued
	_, err = repo.IssueInvoice(ctx, invoice.Id, finance.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.IssueInvoice(ctx, 999999, finance.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}
