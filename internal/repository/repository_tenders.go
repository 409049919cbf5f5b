package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const tenderColumns = `
	id, tender_id, title, description, deadline, status, budget, quantity,
	estimated_cost, delivery_timeline, submission_method, client_id, created_at, updated_at
`

func (repo *Repository) AddTender(ctx context.Context, t models.Tender, actorId int) (models.Tender, error) {
	query := `
	INSERT INTO tenders
		(tender_id, title, description, deadline, status, budget, quantity,
		estimated_cost, delivery_timeline, submission_method, client_id)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at, updated_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return t, fmt.Errorf("repository.Repository.AddTender: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query,
		t.TenderId, t.Title, t.Description, t.Deadline, t.Status, t.Budget,
		t.Quantity, t.EstimatedCost, t.DeliveryTimeline, t.SubmissionMethod, t.ClientId)
	err = row.Scan(&t.Id, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, fmt.Errorf("repository.Repository.AddTender: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionTenderCreated, models.EntityTender, t.Id)
	if err != nil {
		return t, fmt.Errorf("repository.Repository.AddTender: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return t, fmt.Errorf("repository.Repository.AddTender: failed to commit transaction: %w", err)
	}

	return t, nil
}

func (repo *Repository) TenderById(ctx context.Context, id int) (models.Tender, error) {
	var tender models.Tender
	query := `SELECT` + tenderColumns + `FROM tenders WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &tender, query, id)
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TenderById: %w", mapError(err))
	}
	return tender, nil
}

func (repo *Repository) Tenders(ctx context.Context, limit, offset int, status models.TenderStatus, clientId int) ([]models.Tender, error) {
	query := `
	SELECT` + tenderColumns + `
	FROM tenders
	WHERE ($3 = '' OR status = $3) AND ($4 = 0 OR client_id = $4)
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	tenders := []models.Tender{}
	err := repo.db.SelectContext(ctx, &tenders, query, nullPositive(limit), offset, string(status), clientId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Tenders: %w", err)
	}
	return tenders, nil
}

// TransitionTender moves a tender along the allowed edge set. The row is
// locked for the duration of the check so a concurrent transition cannot slip
// between validation and commit.
func (repo *Repository) TransitionTender(ctx context.Context, id int, to models.TenderStatus, actorId int) (models.Tender, error) {
	var tender models.Tender

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: failed to start transaction: %w", err)
	}

	query := `SELECT` + tenderColumns + `FROM tenders WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &tender, query, id)
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if !models.TenderCanTransition(tender.Status, to) {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: %w: %s -> %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), tender.Status, to)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tenders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, to, id)
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionTenderTransition, models.EntityTender, id)
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return tender, fmt.Errorf("repository.Repository.TransitionTender: failed to commit transaction: %w", err)
	}

	tender.Status = to
	return tender, nil
}

//// Service

// nullPositive turns a non-positive limit into NULL, which postgres treats as
// "no limit".
func nullPositive(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}
