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

func addTestPayment(t *testing.T, repo *Repository, invoiceId, actorId int, amount int64) models.Payment {
	payment, err := repo.AddPayment(context.Background(), models.Payment{
		InvoiceId:     invoiceId,
		AmountPaid:    decimal.NewFromInt(amount),
		PaymentMode:   "bank_transfer",
		TransactionId: fmt.Sprintf("TXN-%08d", time.Now().UnixNano()%100000000),
		PaymentDate:   time.Now().UTC(),
		Status:        models.PaymentPending,
	}, actorId)
	if err != nil {
		t.Fatalf("Could not add payment: %s", err)
	}
	return payment
}

// issuedInvoice sets up the whole chain down to an issued invoice for the
// given payable total.
func issuedInvoice(t *testing.T, repo *Repository, users map[models.Role]models.User, total int64) models.Invoice {
	vendor := users[models.RoleVendor]
	finance := users[models.RoleFinance]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	po := addTestPO(t, repo, tender.Id, vendor.Id)
	invoice := addTestInvoice(t, repo, po.Id, finance.Id, total)

	issued, err := repo.IssueInvoice(context.Background(), invoice.Id, finance.Id)
	if err != nil {
		t.Fatalf("Could not issue invoice: %s", err)
	}
	return issued
}

func TestAddPayment(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	finance := users[models.RoleFinance]
	invoice := issuedInvoice(t, repo, users, 900)

	payment := addTestPayment(t, repo, invoice.Id, finance.Id, 400)
	require.Equal(t, models.PaymentPending, payment.Status)
	require.Nil(t, payment.CompletionDate)

	// a pending payment already counts towards the invoice total
	fetched, err := repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartial, fetched.Status)

	// duplicate transaction id is a conflict, the caller regenerates
	payment.Id = 0
	_, err = repo.AddPayment(ctx, payment, finance.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.AddPayment(ctx, models.Payment{
		InvoiceId:     999999,
		AmountPaid:    decimal.NewFromInt(100),
		TransactionId: "TXN-MISSING1",
		PaymentDate:   time.Now().UTC(),
		Status:        models.PaymentPending,
	}, finance.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestPaymentOnDraftInvoice(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	finance := users[models.RoleFinance]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	po := addTestPO(t, repo, tender.Id, vendor.Id)
	draft := addTestInvoice(t, repo, po.Id, finance.Id, 900)

	_, err := repo.AddPayment(ctx, models.Payment{
		InvoiceId:     draft.Id,
		AmountPaid:    decimal.NewFromInt(100),
		TransactionId: "TXN-DRAFT001",
		PaymentDate:   time.Now().UTC(),
		Status:        models.PaymentPending,
	}, finance.Id)
	RequireInvalidTransition(t, err)
}

func TestInvoiceStatusDerivation(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	finance := users[models.RoleFinance]

	// partial coverage
	invoice := issuedInvoice(t, repo, users, 900)
	addTestPayment(t, repo, invoice.Id, finance.Id, 400)

	fetched, err := repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartial, fetched.Status)

	// topping up to the full payable amount settles the invoice
	addTestPayment(t, repo, invoice.Id, finance.Id, 500)

	fetched, err = repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePaid, fetched.Status)

	// a single payment covering the total settles in one step
	second := issuedInvoice(t, repo, users, 900)
	addTestPayment(t, repo, second.Id, finance.Id, 900)

	fetched, err = repo.InvoiceById(ctx, second.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePaid, fetched.Status)
}

func TestResolvePayment(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	finance := users[models.RoleFinance]
	invoice := issuedInvoice(t, repo, users, 900)
	payment := addTestPayment(t, repo, invoice.Id, finance.Id, 400)

	verified, err := repo.VerifyPayment(ctx, payment.Id, nil, finance.Id)
	require.NoError(t, err)
	require.Equal(t, models.PaymentVerified, verified.Status)
	require.NotNil(t, verified.CompletionDate)
	require.WithinDuration(t, time.Now().UTC(), *verified.CompletionDate, time.Minute)

	// only pending payments can be resolved
	_, err = repo.VerifyPayment(ctx, payment.Id, nil, finance.Id)
	RequireInvalidTransition(t, err)
	_, err = repo.FailPayment(ctx, payment.Id, finance.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.VerifyPayment(ctx, 999999, nil, finance.Id)
	require.ErrorIs(t, err, models.ErrNotFound)

	// a caller-supplied completion date wins over the default
	settledOn := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	second := addTestPayment(t, repo, invoice.Id, finance.Id, 100)
	verified, err = repo.VerifyPayment(ctx, second.Id, &settledOn, finance.Id)
	require.NoError(t, err)
	require.NotNil(t, verified.CompletionDate)
	require.True(t, settledOn.Equal(*verified.CompletionDate))
}

func TestFailedPaymentKeepsInvoiceStatus(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	finance := users[models.RoleFinance]
	invoice := issuedInvoice(t, repo, users, 900)

	first := addTestPayment(t, repo, invoice.Id, finance.Id, 400)

	fetched, err := repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartial, fetched.Status)

	// failing the only payment drops the running total to zero, but the
	// invoice keeps the status it already reached
	failed, err := repo.FailPayment(ctx, first.Id, finance.Id)
	require.NoError(t, err)
	require.Equal(t, models.PaymentFailed, failed.Status)

	fetched, err = repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartial, fetched.Status)

	// the failed amount no longer counts, so settling still takes the full total
	addTestPayment(t, repo, invoice.Id, finance.Id, 500)

	fetched, err = repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartial, fetched.Status)

	addTestPayment(t, repo, invoice.Id, finance.Id, 400)

	fetched, err = repo.InvoiceById(ctx, invoice.Id)
	require.NoError(t, err)
	require.Equal(t, models.InvoicePaid, fetched.Status)
}
