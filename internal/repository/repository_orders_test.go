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

func addTestPO(t *testing.T, repo *Repository, tenderId, vendorId int) models.PurchaseOrder {
	po, err := repo.AddPO(context.Background(), models.PurchaseOrder{
		PONumber:    fmt.Sprintf("PO-%08d", time.Now().UnixNano()%100000000),
		TenderId:    tenderId,
		VendorId:    vendorId,
		Items:       "10x unit",
		TotalAmount: decimal.NewFromInt(1000),
		Status:      models.POCreated,
	}, vendorId)
	if err != nil {
		t.Fatalf("Could not add purchase order: %s", err)
	}
	return po
}

func TestAddPO(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	po := addTestPO(t, repo, tender.Id, vendor.Id)
	require.Equal(t, models.POCreated, po.Status)
	require.False(t, po.Acknowledged)

	// duplicate number is a conflict, the caller regenerates
	po.Id = 0
	_, err := repo.AddPO(ctx, po, vendor.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	orders, err := repo.POs(ctx, 0, 0, tender.Id, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	orders, err = repo.POs(ctx, 0, 0, 0, vendor.Id)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestAcknowledgePO(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	vendor := users[models.RoleVendor]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	po := addTestPO(t, repo, tender.Id, vendor.Id)

	acked, err := repo.AcknowledgePO(ctx, po.Id, vendor.Id)
	require.NoError(t, err)
	require.True(t, acked.Acknowledged)

	// a second acknowledgement is rejected
	_, err = repo.AcknowledgePO(ctx, po.Id, vendor.Id)
	RequireInvalidTransition(t, err)

	_, err = repo.AcknowledgePO(ctx, 999999, vendor.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}
