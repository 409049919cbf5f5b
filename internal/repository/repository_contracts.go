package repository

import (
	"context"
	"fmt"
	"time"

	"procurement/internal/models"
)

const contractColumns = `
	id, tender_id, content, scope_of_work, start_date, end_date, status,
	vetting_status, signed_date, created_at, updated_at
`

// AddContract inserts a contract after checking the tender has no other
// non-Expired contract. The tender row is locked first so two concurrent
// creates for the same tender serialize.
func (repo *Repository) AddContract(ctx context.Context, c models.Contract, actorId int) (models.Contract, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: failed to start transaction: %w", err)
	}

	var tenderKey int
	err = tx.GetContext(ctx, &tenderKey, `SELECT id FROM tenders WHERE id = $1 FOR UPDATE`, c.TenderId)
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: %w", wrapRollbackErr(tx, mapError(err)))
	}

	var existing int
	err = tx.GetContext(ctx, &existing,
		`SELECT COUNT(*) FROM contracts WHERE tender_id = $1 AND status <> $2`, c.TenderId, models.ContractExpired)
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: %w", wrapRollbackErr(tx, err))
	}
	if existing > 0 {
		return c, fmt.Errorf("repository.Repository.AddContract: %w: tender %d already has an active contract",
			wrapRollbackErr(tx, models.ErrConflict), c.TenderId)
	}

	query := `
	INSERT INTO contracts (tender_id, content, scope_of_work, start_date, end_date, status, vetting_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at
	`

	row := tx.QueryRowContext(ctx, query,
		c.TenderId, c.Content, c.ScopeOfWork, c.StartDate, c.EndDate, c.Status, c.VettingStatus)
	err = row.Scan(&c.Id, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: %w", wrapRollbackErr(tx, mapError(err)))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionContractCreated, models.EntityContract, c.Id)
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return c, fmt.Errorf("repository.Repository.AddContract: failed to commit transaction: %w", err)
	}

	return c, nil
}

func (repo *Repository) ContractById(ctx context.Context, id int) (models.Contract, error) {
	var contract models.Contract
	query := `SELECT` + contractColumns + `FROM contracts WHERE id = $1 LIMIT 1`

	err := repo.db.GetContext(ctx, &contract, query, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.ContractById: %w", mapError(err))
	}
	return contract, nil
}

func (repo *Repository) Contracts(ctx context.Context, limit, offset, tenderId int) ([]models.Contract, error) {
	query := `
	SELECT` + contractColumns + `
	FROM contracts
	WHERE $3 = 0 OR tender_id = $3
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	OFFSET $2
	`

	contracts := []models.Contract{}
	err := repo.db.SelectContext(ctx, &contracts, query, nullPositive(limit), offset, tenderId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Contracts: %w", err)
	}
	return contracts, nil
}

// SignContract moves a Draft contract to Signed and stamps signed_date. When
// the owning tender sits in approved, it advances to contract_signed in the
// same transaction so the two records cannot drift apart.
func (repo *Repository) SignContract(ctx context.Context, id int, actorId int) (models.Contract, error) {
	var contract models.Contract

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: failed to start transaction: %w", err)
	}

	query := `SELECT` + contractColumns + `FROM contracts WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &contract, query, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if contract.Status != models.ContractDraft {
		return contract, fmt.Errorf("repository.Repository.SignContract: %w: contract is %s, not %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), contract.Status, models.ContractDraft)
	}

	signed := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET status = $1, signed_date = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		models.ContractSigned, signed, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionContractSigned, models.EntityContract, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, err))
	}

	var tender models.Tender
	err = tx.GetContext(ctx, &tender, `SELECT`+tenderColumns+`FROM tenders WHERE id = $1 FOR UPDATE`, contract.TenderId)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, mapError(err)))
	}
	if tender.Status == models.TenderApproved {
		_, err = tx.ExecContext(ctx,
			`UPDATE tenders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
			models.TenderContractSigned, tender.Id)
		if err != nil {
			return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, err))
		}
		err = repo.addAudit(ctx, tx, actorId, models.ActionTenderTransition, models.EntityTender, tender.Id)
		if err != nil {
			return contract, fmt.Errorf("repository.Repository.SignContract: %w", wrapRollbackErr(tx, err))
		}
	}

	err = tx.Commit()
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.SignContract: failed to commit transaction: %w", err)
	}

	contract.Status = models.ContractSigned
	contract.SignedDate = &signed
	return contract, nil
}

func (repo *Repository) TransitionContract(ctx context.Context, id int, to models.ContractStatus, actorId int) (models.Contract, error) {
	var contract models.Contract

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: failed to start transaction: %w", err)
	}

	query := `SELECT` + contractColumns + `FROM contracts WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &contract, query, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if !models.ContractCanTransition(contract.Status, to) {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: %w: %s -> %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), contract.Status, to)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, to, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionContractMoved, models.EntityContract, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.TransitionContract: failed to commit transaction: %w", err)
	}

	contract.Status = to
	return contract, nil
}

// VetContract resolves the vetting branch: Pending -> Vetted | Rejected.
func (repo *Repository) VetContract(ctx context.Context, id int, vetting models.VettingStatus, actorId int) (models.Contract, error) {
	var contract models.Contract

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.VetContract: failed to start transaction: %w", err)
	}

	query := `SELECT` + contractColumns + `FROM contracts WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &contract, query, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.VetContract: %w", wrapRollbackErr(tx, mapError(err)))
	}

	if contract.VettingStatus != models.VettingPending {
		return contract, fmt.Errorf("repository.Repository.VetContract: %w: vetting already %s",
			wrapRollbackErr(tx, models.ErrInvalidTransition), contract.VettingStatus)
	}
	if vetting != models.VettingVetted && vetting != models.VettingRejected {
		return contract, fmt.Errorf("repository.Repository.VetContract: %w: invalid vetting outcome %s",
			wrapRollbackErr(tx, models.ErrValidation), vetting)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET vetting_status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, vetting, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.VetContract: %w", wrapRollbackErr(tx, err))
	}

	err = repo.addAudit(ctx, tx, actorId, models.ActionContractVetted, models.EntityContract, id)
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.VetContract: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return contract, fmt.Errorf("repository.Repository.VetContract: failed to commit transaction: %w", err)
	}

	contract.VettingStatus = vetting
	return contract, nil
}
