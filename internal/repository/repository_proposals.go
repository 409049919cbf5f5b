package repository

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const proposalColumns = `
	id, tender_id, vendor_id, technical_input, technical_score, technical_remarks,
	financial_input, financial_remarks, margin_analysis, document_url, version,
	status, feedback, created_at, updated_at
`

// AddProposal inserts a proposal with version = max version for the
// (tender, vendor) pair + 1. The unique constraint on that triple backstops
// concurrent resubmissions: the loser of the race surfaces as Conflict.
func (repo *Repository) AddProposal(ctx context.Context, p models.Proposal, actorId int) (models.Proposal, error) {
	query := `
	INSERT INTO proposals
		(tender_id, vendor_id, technical_input, technical_score, technical_remarks,
		financial_input, financial_remarks, margin_analysis, document_url, version, status, feedback)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9,
		(SELECT COALESCE(MAX(version), 0) + 1 FROM proposals WHERE tender_id = $1 AND vendor_id = $2),
		$10, $11)
	RETURNING id, version, created_at, updated_at
	`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddProposal: failed to start transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, query,
		p.TenderId, p.VendorId, p.TechnicalInput, p.TechnicalScore, p.TechnicalRemarks,
		p.FinancialInput, p.FinancialRemarks, p.MarginAnalysis, p.DocumentURL, p.Status, p.Feedback)
	err = row.Scan(&p.Id, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddProposal: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionProposalCreated, models.EntityProposal, p.Id)
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddProposal: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return p, fmt.Errorf("repository.Repository.AddProposal: failed to commit transaction: %w", err)
	}

	return p, nil
}

func (repo *Repository) ProposalById(ctx context.Context, id int) (models.Proposal, error) {
	var proposal models.Proposal
	query := `SELECT` + proposalColumns + `FROM proposals WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &proposal, query, id)
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.ProposalById: %w", mapError(err))
	}
	return proposal, nil
}

func (repo *Repository) Proposals(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.Proposal, error) {
	query := `
	SELECT` + proposalColumns + `
	FROM proposals
	WHERE ($3 = 0 OR tender_id = $3) AND ($4 = 0 OR vendor_id = $4)
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	proposals := []models.Proposal{}
	err := repo.db.SelectContext(ctx, &proposals, query, nullPositive(limit), offset, tenderId, vendorId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Proposals: %w", err)
	}
	return proposals, nil
}

// UpdateProposal applies a sparse field set under a row lock. A supplied
// status must be reachable from the stored one.
func (repo *Repository) UpdateProposal(ctx context.Context, id int, upd models.ProposalUpdate, actorId int) (models.Proposal, error) {
	var proposal models.Proposal

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.UpdateProposal: failed to start transaction: %w", err)
	}

	query := `SELECT` + proposalColumns + `FROM proposals WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &proposal, query, id)
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.UpdateProposal: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if upd.TechnicalInput != nil {
		proposal.TechnicalInput = *upd.TechnicalInput
	}
	if upd.TechnicalScore != nil {
		proposal.TechnicalScore = *upd.TechnicalScore
	}
	if upd.TechnicalRemarks != nil {
		proposal.TechnicalRemarks = *upd.TechnicalRemarks
	}
	if upd.FinancialRemarks != nil {
		proposal.FinancialRemarks = *upd.FinancialRemarks
	}
	if upd.MarginAnalysis != nil {
		proposal.MarginAnalysis = *upd.MarginAnalysis
	}
	if upd.DocumentURL != nil {
		proposal.DocumentURL = *upd.DocumentURL
	}
	if upd.Feedback != nil {
		proposal.Feedback = *upd.Feedback
	}
	if upd.Status != nil && *upd.Status != proposal.Status {
		if !models.ProposalCanTransition(proposal.Status, *upd.Status) {
			return proposal, fmt.Errorf("repository.Repository.UpdateProposal: %w: %s -> %s",
				wrapRollbackErr(tx, models.ErrInvalidTransition), proposal.Status, *upd.Status)
		}
		proposal.Status = *upd.Status
	}

	updateQuery := `
	UPDATE proposals
	SET (technical_input, technical_score, technical_remarks, financial_remarks,
		margin_analysis, document_url, status, feedback, updated_at) =
		($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
	WHERE id = $9
	`

	_, err = tx.ExecContext(ctx, updateQuery,
		proposal.TechnicalInput, proposal.TechnicalScore, proposal.TechnicalRemarks,
		proposal.FinancialRemarks, proposal.MarginAnalysis, proposal.DocumentURL,
		proposal.Status, proposal.Feedback, id)
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.UpdateProposal: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionProposalUpdated, models.EntityProposal, id)
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.UpdateProposal: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return proposal, fmt.Errorf("repository.Repository.UpdateProposal: failed to commit transaction: %w", err)
	}

	return proposal, nil
}
