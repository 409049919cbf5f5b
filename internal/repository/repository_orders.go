package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const poColumns = `
	id, po_number, tender_id, vendor_id, items, total_amount, status,
	approved_by, acknowledged, created_at
`

func (repo *Repository) AddPO(ctx context.Context, po models.PurchaseOrder, actorId int) (models.PurchaseOrder, error) {
	query := `
	INSERT INTO purchase_orders
		(po_number, tender_id, vendor_id, items, total_amount, status, approved_by, acknowledged)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, FALSE)
	RETURNING id, created_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AddPO: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query,
		po.PONumber, po.TenderId, po.VendorId, po.Items, po.TotalAmount, po.Status, po.ApprovedBy)
	err = row.Scan(&po.Id, &po.CreatedAt)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AddPO: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionPOCreated, models.EntityPO, po.Id)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AddPO: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AddPO: failed to commit transaction: %w", err)
	}

	return po, nil
}

func (repo *Repository) POById(ctx context.Context, id int) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	query := `SELECT` + poColumns + `FROM purchase_orders WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &po, query, id)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.POById: %w", mapError(err))
	}
	return po, nil
}

func (repo *Repository) POs(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.PurchaseOrder, error) {
	query := `
	SELECT` + poColumns + `
	FROM purchase_orders
	WHERE ($3 = 0 OR tender_id = $3) AND ($4 = 0 OR vendor_id = $4)
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	orders := []models.PurchaseOrder{}
	err := repo.db.SelectContext(ctx, &orders, query, nullPositive(limit), offset, tenderId, vendorId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.POs: %w", err)
	}
	return orders, nil
}

// AcknowledgePO marks a PO acknowledged. Only freshly created, not yet
// acknowledged orders accept the acknowledgement.
func (repo *Repository) AcknowledgePO(ctx context.Context, id int, actorId int) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: failed to start transaction: %w", err)
	}

	query := `SELECT` + poColumns + `FROM purchase_orders WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &po, query, id)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if po.Status != models.POCreated || po.Acknowledged {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: %w: status %s, acknowledged %t",
			wrapRollbackErr(tx, models.ErrInvalidTransition), po.Status, po.Acknowledged)
	}

	_, err = tx.ExecContext(ctx, `UPDATE purchase_orders SET acknowledged = TRUE WHERE id = $1`, id)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionPOAcknowledged, models.EntityPO, id)
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return po, fmt.Errorf("repository.Repository.AcknowledgePO: failed to commit transaction: %w", err)
	}

	po.Acknowledged = true
	return po, nil
}
