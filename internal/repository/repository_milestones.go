package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const milestoneColumns = `
	id, tender_id, title, description, status, inspection_status,
	quality_remarks, proof_url, created_at, updated_at
`

func (repo *Repository) AddMilestone(ctx context.Context, m models.Milestone, actorId int) (models.Milestone, error) {
	query := `
	INSERT INTO milestones
		(tender_id, title, description, status, inspection_status, quality_remarks, proof_url)
	VALUES
		($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return m, fmt.Errorf("repository.Repository.AddMilestone: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query,
		m.TenderId, m.Title, m.Description, m.Status, m.InspectionStatus, m.QualityRemarks, m.ProofURL)
	err = row.Scan(&m.Id, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, fmt.Errorf("repository.Repository.AddMilestone: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionMilestoneCreated, models.EntityMilestone, m.Id)
	if err != nil {
		return m, fmt.Errorf("repository.Repository.AddMilestone: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return m, fmt.Errorf("repository.Repository.AddMilestone: failed to commit transaction: %w", err)
	}

	return m, nil
}

func (repo *Repository) MilestoneById(ctx context.Context, id int) (models.Milestone, error) {
	var milestone models.Milestone
	query := `SELECT` + milestoneColumns + `FROM milestones WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &milestone, query, id)
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.MilestoneById: %w", mapError(err))
	}
	return milestone, nil
}

func (repo *Repository) Milestones(ctx context.Context, limit, offset, tenderId int) ([]models.Milestone, error) {
	query := `
	SELECT` + milestoneColumns + `
	FROM milestones
	WHERE $3 = 0 OR tender_id = $3
	ORDER BY created_at, id
	LIMIT $1
	OFFSET $2
	`

	milestones := []models.Milestone{}
	err := repo.db.SelectContext(ctx, &milestones, query, nullPositive(limit), offset, tenderId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Milestones: %w", err)
	}
	return milestones, nil
}

// UpdateMilestone applies a sparse field set under a row lock. A milestone
// whose inspection comes back Passed is forced to Completed.
func (repo *Repository) UpdateMilestone(ctx context.Context, id int, upd models.MilestoneUpdate, actorId int) (models.Milestone, error) {
	var milestone models.Milestone

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.UpdateMilestone: failed to start transaction: %w", err)
	}

	query := `SELECT` + milestoneColumns + `FROM milestones WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &milestone, query, id)
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.UpdateMilestone: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if upd.Title != nil {
		milestone.Title = *upd.Title
	}
	if upd.Description != nil {
		milestone.Description = *upd.Description
	}
	if upd.Status != nil {
		milestone.Status = *upd.Status
	}
	if upd.InspectionStatus != nil {
		milestone.InspectionStatus = *upd.InspectionStatus
	}
	if upd.QualityRemarks != nil {
		milestone.QualityRemarks = *upd.QualityRemarks
	}
	if upd.ProofURL != nil {
		milestone.ProofURL = *upd.ProofURL
	}

	if milestone.InspectionStatus == models.InspectionPassed {
		milestone.Status = models.MilestoneCompleted
	}

	updateQuery := `
	UPDATE milestones
	SET (title, description, status, inspection_status, quality_remarks, proof_url, updated_at) =
		($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
	WHERE id = $7
	`

	_, err = tx.ExecContext(ctx, updateQuery,
		milestone.Title, milestone.Description, milestone.Status,
		milestone.InspectionStatus, milestone.QualityRemarks, milestone.ProofURL, id)
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.UpdateMilestone: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionMilestoneUpdated, models.EntityMilestone, id)
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.UpdateMilestone: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return milestone, fmt.Errorf("repository.Repository.UpdateMilestone: failed to commit transaction: %w", err)
	}

	return milestone, nil
}
