package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const workflowColumns = `
	id, workflow_id, entity_type, entity_id, status, next_step, created_at
`

// AddWorkflow opens an approval workflow for an entity. The unique index on
// (entity_type, entity_id) rejects a second open workflow for the same entity.
func (repo *Repository) AddWorkflow(ctx context.Context, wf models.ApprovalWorkflow, actorId int) (models.ApprovalWorkflow, error) {
	query := `
	INSERT INTO approval_workflows (workflow_id, entity_type, entity_id, status, next_step)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return wf, fmt.Errorf("repository.Repository.AddWorkflow: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query, wf.WorkflowId, wf.EntityType, wf.EntityId, wf.Status, wf.NextStep)
	err = row.Scan(&wf.Id, &wf.CreatedAt)
	if err != nil {
		return wf, fmt.Errorf("repository.Repository.AddWorkflow: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionWorkflowCreated, models.EntityWorkflow, wf.Id)
	if err != nil {
		return wf, fmt.Errorf("repository.Repository.AddWorkflow: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return wf, fmt.Errorf("repository.Repository.AddWorkflow: failed to commit transaction: %w", err)
	}

	return wf, nil
}

func (repo *Repository) WorkflowById(ctx context.Context, id int) (models.ApprovalWorkflow, error) {
	var workflow models.ApprovalWorkflow
	query := `SELECT` + workflowColumns + `FROM approval_workflows WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &workflow, query, id)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.WorkflowById: %w", mapError(err))
	}
	return workflow, nil
}

func (repo *Repository) WorkflowByEntity(ctx context.Context, entityType string, entityId int) (models.ApprovalWorkflow, error) {
	var workflow models.ApprovalWorkflow
	query := `SELECT` + workflowColumns + `FROM approval_workflows WHERE entity_type = $1 AND entity_id = $2 LIMIT 1`

	err := repo.db.GetContext(ctx, &workflow, query, entityType, entityId)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.WorkflowByEntity: %w", mapError(err))
	}
	return workflow, nil
}

func (repo *Repository) Workflows(ctx context.Context, limit, offset int, entityType string) ([]models.ApprovalWorkflow, error) {
	query := `
	SELECT` + workflowColumns + `
	FROM approval_workflows
	WHERE $3 = '' OR entity_type = $3
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	workflows := []models.ApprovalWorkflow{}
	err := repo.db.SelectContext(ctx, &workflows, query, nullPositive(limit), offset, entityType)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Workflows: %w", err)
	}
	return workflows, nil
}

// AdvanceWorkflow rewrites the workflow's status and next step.
func (repo *Repository) AdvanceWorkflow(ctx context.Context, id int, status, nextStep string, actorId int) (models.ApprovalWorkflow, error) {
	var workflow models.ApprovalWorkflow

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.AdvanceWorkflow: failed to start transaction: %w", err)
	}

	query := `SELECT` + workflowColumns + `FROM approval_workflows WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &workflow, query, id)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.AdvanceWorkflow: %w", wrapRollbackErr(tx, mapError(err)))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE approval_workflows SET status = $1, next_step = $2 WHERE id = $3`, status, nextStep, id)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.AdvanceWorkflow: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionWorkflowAdvanced, models.EntityWorkflow, id)
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.AdvanceWorkflow: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return workflow, fmt.Errorf("repository.Repository.AdvanceWorkflow: failed to commit transaction: %w", err)
	}

	workflow.Status = status
	workflow.NextStep = nextStep
	return workflow, nil
}
